package subsync

import (
	"fmt"
	"time"
)

// Config is the configuration for the Client.
//
// All duration fields accept standard Go durations. Zero values are filled
// in by SetDefaults; see the Default* constants for the production values.
type Config struct {
	// ReconcileInterval is the period between timer-triggered reconciliation
	// passes. Desired-state mutations additionally wake the reconciler
	// immediately, so this interval bounds how long a failed subscription
	// stays unretried, not how long a normal subscribe takes.
	ReconcileInterval time.Duration `yaml:"reconcileInterval"`

	// WaitPollInterval is how often blocking subscribe/unsubscribe callers
	// re-check convergence while waiting. Must be shorter than
	// ReconcileInterval.
	WaitPollInterval time.Duration `yaml:"waitPollInterval"`

	// QueueSize is the capacity of the poll-mode message queue. When the
	// queue is full, newly arriving messages are dropped and counted.
	// Ignored in callback mode.
	QueueSize int `yaml:"queueSize"`

	// ClusterMode enables the sharded channel namespace. Sharded operations
	// on a non-cluster client fail with ErrClusterModeRequired.
	ClusterMode bool `yaml:"clusterMode"`

	// ShutdownTimeout is the maximum time Close waits for the reconciler
	// and in-flight hooks to wind down.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: DefaultReconcileInterval,
		WaitPollInterval:  DefaultWaitPollInterval,
		QueueSize:         DefaultQueueSize,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ReconcileInterval == 0 {
		cfg.ReconcileInterval = defaults.ReconcileInterval
	}
	if cfg.WaitPollInterval == 0 {
		cfg.WaitPollInterval = defaults.WaitPollInterval
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// Validate checks configuration constraints and returns an error for invalid
// values.
//
// Hard Validation Rules:
//   - ReconcileInterval > 0
//   - WaitPollInterval > 0 and < ReconcileInterval
//   - QueueSize > 0
//
// Returns:
//   - error: Validation error with a clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ReconcileInterval <= 0 {
		return fmt.Errorf("ReconcileInterval must be > 0, got %v", cfg.ReconcileInterval)
	}
	if cfg.WaitPollInterval <= 0 {
		return fmt.Errorf("WaitPollInterval must be > 0, got %v", cfg.WaitPollInterval)
	}
	if cfg.WaitPollInterval >= cfg.ReconcileInterval {
		return fmt.Errorf(
			"WaitPollInterval (%v) must be < ReconcileInterval (%v) so waiters observe each pass",
			cfg.WaitPollInterval, cfg.ReconcileInterval,
		)
	}
	if cfg.QueueSize <= 0 {
		return fmt.Errorf("QueueSize must be > 0, got %d", cfg.QueueSize)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values.
//
// This is called after Validate() in NewClient() to provide operator
// guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.ReconcileInterval < 100*time.Millisecond {
		logger.Warn(
			"ReconcileInterval is very short, may cause excessive protocol traffic",
			"interval", cfg.ReconcileInterval,
			"recommended", "100ms or higher",
		)
	}
	if cfg.QueueSize < 16 {
		logger.Warn(
			"QueueSize is very small, bursts will drop messages",
			"queueSize", cfg.QueueSize,
			"recommended", "16 or higher",
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10x faster than production defaults to enable rapid
// iteration without sacrificing coverage. Use DefaultConfig() for production
// deployments.
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.ReconcileInterval = 100 * time.Millisecond
	cfg.WaitPollInterval = 5 * time.Millisecond
	cfg.ShutdownTimeout = 1 * time.Second

	return cfg
}
