package subsync

import "github.com/valkey-io/valkey-glide-sub001/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root package, while
// still providing a convenient `subsync.ChannelMode`, `subsync.Message`,
// etc. for users.
type (
	ChannelMode     = types.ChannelMode
	ModeSet         = types.ModeSet
	Snapshot        = types.Snapshot
	Message         = types.Message
	SubscribeResult = types.SubscribeResult
	ResultStatus    = types.ResultStatus
)

// Re-export interfaces from the internal types package for convenience.
type (
	Conn             = types.Conn
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Hooks            = types.Hooks
)

// Re-export ChannelMode constants from the internal types package.
const (
	ModeExact   = types.ModeExact
	ModePattern = types.ModePattern
	ModeSharded = types.ModeSharded
)

// Re-export result statuses from the internal types package.
const (
	ResultOK     = types.ResultOK
	ResultDenied = types.ResultDenied
	ResultError  = types.ResultError
)
