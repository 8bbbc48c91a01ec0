package metrics

import "github.com/valkey-io/valkey-glide-sub001/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ReconcilerMetrics implementation

// RecordReconcilePass discards the pass outcome metric.
func (n *NopMetrics) RecordReconcilePass(_ /* result */ string, _ /* duration */ float64) {
	// No-op
}

// RecordSubscriptionChange discards the subscription change metric.
func (n *NopMetrics) RecordSubscriptionChange(_ /* mode */ string, _ /* added */, _ /* removed */ int) {
	// No-op
}

// SetDesiredChannels discards the desired channel gauge.
func (n *NopMetrics) SetDesiredChannels(_ /* mode */ string, _ /* count */ int) {
	// No-op
}

// SetSyncStatus discards the sync status gauge.
func (n *NopMetrics) SetSyncStatus(_ /* inSync */ bool) {
	// No-op
}

// DeliveryMetrics implementation

// RecordMessageDelivered discards the delivery counter.
func (n *NopMetrics) RecordMessageDelivered(_ /* path */ string) {
	// No-op
}

// RecordMessageDropped discards the drop counter.
func (n *NopMetrics) RecordMessageDropped(_ /* reason */ string) {
	// No-op
}

// SetQueueDepth discards the queue depth gauge.
func (n *NopMetrics) SetQueueDepth(_ /* depth */ int) {
	// No-op
}
