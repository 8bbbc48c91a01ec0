package types

import "errors"

// Sentinel errors for the subsync library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components should use these sentinel errors for known
// error conditions and wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).

// Validation errors - raised synchronously before any state mutation.
var (
	// ErrNoChannels is returned when a subscribe call receives an empty
	// channel set. The message text is part of the public contract.
	ErrNoChannels = errors.New("No channels provided for subscription")

	// ErrInvalidTimeout is returned when a blocking call receives a negative
	// timeout. Callers wrap it with the offending value.
	ErrInvalidTimeout = errors.New("timeout must be non-negative")

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnRequired is returned when the protocol connection is nil.
	ErrConnRequired = errors.New("protocol connection is required")
)

// Convergence errors - raised only by blocking API variants.
var (
	// ErrSyncTimeout is returned when actual subscription state fails to
	// reach desired state within the caller's timeout. Desired state remains
	// set and the reconciler keeps retrying independently.
	ErrSyncTimeout = errors.New("subscription state did not converge within timeout")
)

// Configuration errors - programmer misuse, not transient conditions.
var (
	// ErrCallbackConfigured is returned when message polling is invoked on a
	// client configured for callback delivery.
	ErrCallbackConfigured = errors.New("message polling is not available on a callback-configured client")

	// ErrShardedNotSupported is returned when a sharded operation targets a
	// server without sharded pub/sub support.
	ErrShardedNotSupported = errors.New("sharded pub/sub is not supported by the server")

	// ErrClusterModeRequired is returned when a sharded operation is issued
	// on a client not configured for cluster mode.
	ErrClusterModeRequired = errors.New("sharded pub/sub requires cluster mode")
)

// Lifecycle errors.
var (
	// ErrAlreadyStarted is returned when Start is called on a running client.
	ErrAlreadyStarted = errors.New("client already started")

	// ErrNotStarted is returned when operations require a started client.
	ErrNotStarted = errors.New("client not started")

	// ErrClosed is returned when the client has been closed.
	ErrClosed = errors.New("client closed")
)
