// Package natsconn adapts a NATS connection to the types.Conn transport
// interface.
//
// Channel names are mapped onto NATS subjects under a configurable prefix:
//
//	<prefix>.chan.<channel>          regular channels
//	<prefix>.shard.<slot>.<channel>  sharded channels, slot = SlotForChannel
//
// Exact and sharded subscriptions become per-channel NATS subscriptions.
// Pattern subscriptions share a single wildcard subscription on
// <prefix>.chan.> and are matched client-side, which keeps glob semantics
// ('*', '?') independent of NATS token wildcards.
//
// Channel names are used verbatim as subject tokens and therefore must not
// contain '.', ' ', or NATS wildcard characters.
package natsconn
