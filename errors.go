package subsync

import "github.com/valkey-io/valkey-glide-sub001/types"

// Sentinel errors returned by the Client.
//
// The definitions live in the types package so internal components can
// return them without importing the root package; these vars re-export them
// for errors.Is checks against the public API.
var (
	// ErrNoChannels is returned when a subscribe call receives no channels.
	ErrNoChannels = types.ErrNoChannels

	// ErrInvalidTimeout is returned when a blocking call receives a negative timeout.
	ErrInvalidTimeout = types.ErrInvalidTimeout

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrConnRequired is returned when the protocol connection is nil.
	ErrConnRequired = types.ErrConnRequired

	// ErrSyncTimeout is returned when a blocking call's timeout elapses before
	// the server confirms the change. The desired state remains set and the
	// reconciler keeps retrying.
	ErrSyncTimeout = types.ErrSyncTimeout

	// ErrCallbackConfigured is returned when GetMessage or TryGetMessage is
	// called on a callback-configured client.
	ErrCallbackConfigured = types.ErrCallbackConfigured

	// ErrShardedNotSupported is returned when the server lacks sharded pub/sub support.
	ErrShardedNotSupported = types.ErrShardedNotSupported

	// ErrClusterModeRequired is returned when sharded operations are used without cluster mode.
	ErrClusterModeRequired = types.ErrClusterModeRequired

	// ErrAlreadyStarted is returned when Start is called on a running client.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when operations require a started client.
	ErrNotStarted = types.ErrNotStarted

	// ErrClosed is returned when the client has been closed.
	ErrClosed = types.ErrClosed
)
