// Package types contains the core types and interfaces shared across the
// subsync library.
//
// It exists as a separate package so internal components can depend on the
// shared definitions without importing the root package, avoiding import
// cycles. Users normally interact with the aliases re-exported by the root
// package instead of importing this package directly.
package types
