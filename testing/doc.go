// Package testing provides test helpers for the subsync library.
//
// MemoryConn is an in-memory implementation of types.Conn with controllable
// ACL denial, reconnect simulation, and faithful pub/sub routing (exact,
// pattern, and sharded namespaces). StartEmbeddedNATS runs an in-process
// NATS server for exercising the natsconn transport.
package testing
