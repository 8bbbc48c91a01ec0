package subsync

import "time"

// Default configuration values for the Client.
const (
	// DefaultReconcileInterval is the default period between timer-triggered
	// reconciliation passes. Desired-state changes additionally trigger an
	// immediate pass, so this bounds recovery time after failures, not
	// normal subscription latency.
	DefaultReconcileInterval = 1 * time.Second

	// DefaultWaitPollInterval is the default re-check period for blocking
	// subscribe/unsubscribe waiters.
	DefaultWaitPollInterval = 20 * time.Millisecond

	// DefaultQueueSize is the default capacity of the poll-mode message queue.
	DefaultQueueSize = 1024

	// DefaultShutdownTimeout is the default maximum time Close waits for the
	// reconciler and delivery paths to wind down.
	DefaultShutdownTimeout = 5 * time.Second
)

// Statistics keys returned by Client.GetStatistics. The key set is
// additive-only: new keys may appear, existing keys never change meaning.
const (
	// StatOutOfSyncCount counts reconciliation passes that ended with
	// desired != actual.
	StatOutOfSyncCount = "subscription_out_of_sync_count"

	// StatLastSyncTimestampMs is the Unix-millisecond timestamp of the most
	// recent pass that ended with desired == actual (0 if none yet).
	StatLastSyncTimestampMs = "subscription_last_sync_timestamp_ms"

	// StatReconcilePassCount counts all completed reconciliation passes.
	StatReconcilePassCount = "subscription_reconcile_pass_count"

	// StatMessagesDelivered counts messages handed to the caller.
	StatMessagesDelivered = "pubsub_messages_delivered"

	// StatMessagesDropped counts messages discarded before delivery.
	StatMessagesDropped = "pubsub_messages_dropped"
)
