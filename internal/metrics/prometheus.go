package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Reconciler metrics
	passResults    *prometheus.CounterVec
	passLatency    prometheus.Histogram
	subChanges     *prometheus.CounterVec
	desiredGauge   *prometheus.GaugeVec
	syncStatus     prometheus.Gauge

	// Delivery metrics
	delivered  *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "subsync" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "subsync"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.passResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "passes_total",
			Help:      "Total reconciliation passes by outcome (synced,out_of_sync).",
		}, []string{"result"})

		p.passLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "pass_duration_seconds",
			Help:      "Latency of reconciliation passes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		})

		p.subChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "subscription_changes_total",
			Help:      "Total confirmed subscription changes by mode and kind (add/remove).",
		}, []string{"mode", "kind"})

		p.desiredGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "desired_channels",
			Help:      "Current number of desired channels by mode.",
		}, []string{"mode"})

		p.syncStatus = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "in_sync",
			Help:      "Whether actual subscription state matches desired (1=in sync,0=out of sync).",
		})

		p.delivered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "messages_delivered_total",
			Help:      "Total messages handed to the caller by delivery path (queue,callback).",
		}, []string{"path"})

		p.dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "messages_dropped_total",
			Help:      "Total messages discarded before delivery by reason (queue_full,closed).",
		}, []string{"reason"})

		p.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "delivery",
			Name:      "queue_depth",
			Help:      "Current number of messages buffered in the poll queue.",
		})

		p.reg.MustRegister(p.passResults)
		p.reg.MustRegister(p.passLatency)
		p.reg.MustRegister(p.subChanges)
		p.reg.MustRegister(p.desiredGauge)
		p.reg.MustRegister(p.syncStatus)
		p.reg.MustRegister(p.delivered)
		p.reg.MustRegister(p.dropped)
		p.reg.MustRegister(p.queueDepth)
	})
}

// ReconcilerMetrics implementation

// RecordReconcilePass records the pass outcome and its latency.
func (p *PrometheusCollector) RecordReconcilePass(result string, duration float64) {
	p.ensureRegistered()
	p.passResults.WithLabelValues(result).Inc()
	p.passLatency.Observe(duration)
}

// RecordSubscriptionChange increments confirmed add/remove counts per mode.
func (p *PrometheusCollector) RecordSubscriptionChange(mode string, added, removed int) {
	p.ensureRegistered()
	if added > 0 {
		p.subChanges.WithLabelValues(mode, "add").Add(float64(added))
	}
	if removed > 0 {
		p.subChanges.WithLabelValues(mode, "remove").Add(float64(removed))
	}
}

// SetDesiredChannels sets the desired channel gauge for a mode.
func (p *PrometheusCollector) SetDesiredChannels(mode string, count int) {
	p.ensureRegistered()
	p.desiredGauge.WithLabelValues(mode).Set(float64(count))
}

// SetSyncStatus sets the sync status gauge (1 in sync, 0 out of sync).
func (p *PrometheusCollector) SetSyncStatus(inSync bool) {
	p.ensureRegistered()
	if inSync {
		p.syncStatus.Set(1)
	} else {
		p.syncStatus.Set(0)
	}
}

// DeliveryMetrics implementation

// RecordMessageDelivered increments the delivery counter for a path.
func (p *PrometheusCollector) RecordMessageDelivered(path string) {
	p.ensureRegistered()
	p.delivered.WithLabelValues(path).Inc()
}

// RecordMessageDropped increments the drop counter for a reason.
func (p *PrometheusCollector) RecordMessageDropped(reason string) {
	p.ensureRegistered()
	p.dropped.WithLabelValues(reason).Inc()
}

// SetQueueDepth sets the poll-queue depth gauge.
func (p *PrometheusCollector) SetQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Set(float64(depth))
}
