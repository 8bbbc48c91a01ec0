package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "test")

	t.Run("registration is lazy", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)
		require.Empty(t, families)
	})

	t.Run("reconciler metrics", func(t *testing.T) {
		c.RecordReconcilePass("synced", 0.005)
		c.RecordReconcilePass("out_of_sync", 0.002)
		c.RecordReconcilePass("out_of_sync", 0.003)
		c.RecordSubscriptionChange("Exact", 2, 1)
		c.SetDesiredChannels("Exact", 3)
		c.SetSyncStatus(false)

		require.Equal(t, float64(1), promtestutil.ToFloat64(c.passResults.WithLabelValues("synced")))
		require.Equal(t, float64(2), promtestutil.ToFloat64(c.passResults.WithLabelValues("out_of_sync")))
		require.Equal(t, float64(2), promtestutil.ToFloat64(c.subChanges.WithLabelValues("Exact", "add")))
		require.Equal(t, float64(1), promtestutil.ToFloat64(c.subChanges.WithLabelValues("Exact", "remove")))
		require.Equal(t, float64(3), promtestutil.ToFloat64(c.desiredGauge.WithLabelValues("Exact")))
		require.Equal(t, float64(0), promtestutil.ToFloat64(c.syncStatus))

		c.SetSyncStatus(true)
		require.Equal(t, float64(1), promtestutil.ToFloat64(c.syncStatus))
	})

	t.Run("delivery metrics", func(t *testing.T) {
		c.RecordMessageDelivered("queue")
		c.RecordMessageDropped("queue_full")
		c.SetQueueDepth(7)

		require.Equal(t, float64(1), promtestutil.ToFloat64(c.delivered.WithLabelValues("queue")))
		require.Equal(t, float64(1), promtestutil.ToFloat64(c.dropped.WithLabelValues("queue_full")))
		require.Equal(t, float64(7), promtestutil.ToFloat64(c.queueDepth))
	})

	t.Run("metric names carry the namespace", func(t *testing.T) {
		count, err := promtestutil.GatherAndCount(reg, "test_reconciler_passes_total", "test_delivery_queue_depth")
		require.NoError(t, err)
		require.NotZero(t, count)
	})
}

func TestPrometheusCollectorDefaults(t *testing.T) {
	// Separate registry so the default namespace does not collide with other tests
	c := NewPrometheus(prometheus.NewRegistry(), "")
	require.Equal(t, "subsync", c.namespace)
}
