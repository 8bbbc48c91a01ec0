package subsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 1*time.Second, cfg.ReconcileInterval)
	require.Equal(t, 20*time.Millisecond, cfg.WaitPollInterval)
	require.Equal(t, 1024, cfg.QueueSize)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.ClusterMode)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultReconcileInterval, cfg.ReconcileInterval)
		require.Equal(t, DefaultWaitPollInterval, cfg.WaitPollInterval)
		require.Equal(t, DefaultQueueSize, cfg.QueueSize)
		require.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			ReconcileInterval: 2 * time.Second,
			WaitPollInterval:  50 * time.Millisecond,
			QueueSize:         64,
			ClusterMode:       true,
			ShutdownTimeout:   10 * time.Second,
		}
		SetDefaults(&cfg)

		require.Equal(t, 2*time.Second, cfg.ReconcileInterval)
		require.Equal(t, 50*time.Millisecond, cfg.WaitPollInterval)
		require.Equal(t, 64, cfg.QueueSize)
		require.True(t, cfg.ClusterMode)
		require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()

		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive reconcile interval", func(t *testing.T) {
		cfg := valid()
		cfg.ReconcileInterval = 0

		require.ErrorContains(t, cfg.Validate(), "ReconcileInterval")
	})

	t.Run("rejects non-positive wait poll interval", func(t *testing.T) {
		cfg := valid()
		cfg.WaitPollInterval = -time.Millisecond

		require.ErrorContains(t, cfg.Validate(), "WaitPollInterval")
	})

	t.Run("rejects wait poll interval >= reconcile interval", func(t *testing.T) {
		cfg := valid()
		cfg.WaitPollInterval = cfg.ReconcileInterval

		require.ErrorContains(t, cfg.Validate(), "must be < ReconcileInterval")
	})

	t.Run("rejects non-positive queue size", func(t *testing.T) {
		cfg := valid()
		cfg.QueueSize = 0

		require.ErrorContains(t, cfg.Validate(), "QueueSize")
	})
}

func TestConfigYAML(t *testing.T) {
	raw := `
reconcileInterval: 500ms
waitPollInterval: 10ms
queueSize: 256
clusterMode: true
shutdownTimeout: 2s
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	require.Equal(t, 500*time.Millisecond, cfg.ReconcileInterval)
	require.Equal(t, 10*time.Millisecond, cfg.WaitPollInterval)
	require.Equal(t, 256, cfg.QueueSize)
	require.True(t, cfg.ClusterMode)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.ReconcileInterval, DefaultReconcileInterval)
	require.Less(t, cfg.WaitPollInterval, cfg.ReconcileInterval)
}
