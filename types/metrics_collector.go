package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity. It is the exporter surface (e.g., Prometheus); the per-client
// statistics returned by Client.GetStatistics are maintained separately.
type MetricsCollector interface {
	ReconcilerMetrics
	DeliveryMetrics
}

// ReconcilerMetrics defines metrics for reconciliation passes.
type ReconcilerMetrics interface {
	// RecordReconcilePass records the outcome of one reconciliation pass.
	//
	// Parameters:
	//   - result: Pass outcome ("synced", "out_of_sync")
	//   - duration: Time taken in seconds
	RecordReconcilePass(result string, duration float64)

	// RecordSubscriptionChange records channels applied by a pass.
	//
	// Parameters:
	//   - mode: Channel mode label ("Exact", "Pattern", "Sharded")
	//   - added: Number of channels confirmed added (0 if none)
	//   - removed: Number of channels confirmed removed (0 if none)
	RecordSubscriptionChange(mode string, added, removed int)

	// SetDesiredChannels sets the current desired channel count per mode
	// (gauge metric).
	SetDesiredChannels(mode string, count int)

	// SetSyncStatus sets whether actual state matches desired state
	// (1=in sync, 0=out of sync).
	SetSyncStatus(inSync bool)
}

// DeliveryMetrics defines metrics for inbound message delivery.
type DeliveryMetrics interface {
	// RecordMessageDelivered records a message handed to the caller.
	//
	// Parameters:
	//   - path: Delivery path ("queue", "callback")
	RecordMessageDelivered(path string)

	// RecordMessageDropped records a message discarded before delivery.
	//
	// Parameters:
	//   - reason: Drop reason ("queue_full", "closed")
	RecordMessageDropped(reason string)

	// SetQueueDepth sets the current poll-queue depth (gauge metric).
	SetQueueDepth(depth int)
}
