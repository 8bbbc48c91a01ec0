package subsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/valkey-io/valkey-glide-sub001/internal/hooks"
	"github.com/valkey-io/valkey-glide-sub001/internal/logger"
	"github.com/valkey-io/valkey-glide-sub001/internal/metrics"
	"github.com/valkey-io/valkey-glide-sub001/internal/reconcile"
	"github.com/valkey-io/valkey-glide-sub001/internal/state"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// Client reconciles pub/sub subscriptions between the caller's declaration
// and the server's observed state.
//
// Client is the main entry point of the subsync library. It handles:
//   - Desired-state mutation through the subscribe/unsubscribe API
//   - Background reconciliation of server-side subscriptions
//   - Inbound message delivery via a poll queue or a user callback
//   - Reapplication of subscriptions after reconnects
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Desired-state mutations from a single caller apply in call order;
//     two callers racing on the same channel resolve last-writer-wins
//
// Lifecycle:
//   - Create with NewClient()
//   - Call Start() to begin reconciliation and message delivery
//   - Call Close() for graceful shutdown
type Client struct {
	cfg  Config
	conn types.Conn

	// Optional dependencies
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   types.Hooks

	// Internal components
	state      *state.State
	stats      *state.Stats
	reconciler *reconcile.Reconciler
	delivery   messageDelivery

	// Lifecycle management
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	closed  bool
}

// NewClient creates a new Client instance with the provided configuration.
//
// Returns a concrete *Client struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing
// if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - conn: Protocol connection the reconciler drives
//   - opts: Optional configuration (logger, metrics, hooks, callback delivery)
//
// Returns:
//   - *Client: Initialized client instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := subsync.DefaultConfig()
//	client, err := subsync.NewClient(&cfg, conn, subsync.WithLogger(logger))
func NewClient(cfg *Config, conn types.Conn, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if conn == nil {
		return nil, ErrConnRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks
	// everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	c := &Client{
		cfg:     *cfg,
		conn:    conn,
		logger:  loggerInstance,
		metrics: metricsCollector,
		hooks:   *hooksInstance,
		state:   state.New(),
		stats:   state.NewStats(),
	}

	if options.callback != nil {
		c.delivery = newCallbackDelivery(options.callback, options.callbackContext, c.stats, c.metrics)
	} else {
		c.delivery = newQueueDelivery(cfg.QueueSize, c.stats, c.metrics, loggerInstance)
	}

	c.reconciler = reconcile.New(
		cfg.ReconcileInterval,
		conn,
		c.state,
		c.stats,
		c.metrics,
		loggerInstance,
		c.hooks,
	)

	return c, nil
}

// Start registers the protocol handlers and launches the background
// reconciler.
//
// Parameters:
//   - ctx: Parent context for the reconciliation loop
//
// Returns:
//   - error: ErrAlreadyStarted if running, ErrClosed after Close
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	// Handlers are registered before any subscription traffic starts.
	c.conn.OnMessage(c.delivery.deliver)
	c.conn.OnReconnect(func() {
		// The server forgot this connection's subscriptions; clear actual
		// state and reapply immediately.
		c.logger.Info("connection re-established, reapplying subscriptions")
		c.state.ResetActual()
		c.reconciler.Signal()
	})

	if err := c.reconciler.Start(c.ctx); err != nil {
		c.cancel()

		return err
	}

	c.started = true
	c.logger.Debug("subscription client started", "reconcileInterval", c.cfg.ReconcileInterval)

	return nil
}

// Close gracefully shuts down the client: the reconciler stops and anyone
// blocked in GetMessage is released.
//
// Safe to call multiple times; subsequent calls return ErrNotStarted.
//
// Parameters:
//   - ctx: Context bounding the shutdown wait (in addition to ShutdownTimeout)
//
// Returns:
//   - error: Shutdown error or timeout
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.started || c.closed {
		c.mu.Unlock()

		return ErrNotStarted
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.delivery.close()

	// Reconciler stop includes waiting out in-flight hooks; bound it.
	done := make(chan struct{})
	go func() {
		c.reconciler.Stop()
		close(done)
	}()

	timeout := time.NewTimer(c.cfg.ShutdownTimeout)
	defer timeout.Stop()

	select {
	case <-done:
		return nil
	case <-timeout.C:
		return fmt.Errorf("shutdown timed out after %v", c.cfg.ShutdownTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ---------------------------------------------------------------------------
// Blocking subscription API
//
// Blocking variants mutate desired state, wake the reconciler, then wait
// until the server confirms the change or the timeout elapses. A timeout of
// 0 is not "block forever": it means "fail immediately unless already
// synced". Timing out only means this caller stopped waiting; the desired
// mutation stands and the reconciler keeps retrying.
// ---------------------------------------------------------------------------

// Subscribe adds exact-channel subscriptions and waits for confirmation.
//
// Parameters:
//   - ctx: Context for cancellation
//   - channels: Channels to subscribe to (must be non-empty)
//   - timeout: Maximum wait for server confirmation (must be >= 0)
//
// Returns:
//   - error: Validation error, ErrSyncTimeout, or context error
func (c *Client) Subscribe(ctx context.Context, channels []string, timeout time.Duration) error {
	return c.blockingSubscribe(ctx, types.ModeExact, channels, timeout)
}

// PSubscribe adds pattern subscriptions and waits for confirmation.
// Patterns use glob syntax: '*' matches any sequence, '?' one character.
func (c *Client) PSubscribe(ctx context.Context, patterns []string, timeout time.Duration) error {
	return c.blockingSubscribe(ctx, types.ModePattern, patterns, timeout)
}

// SSubscribe adds sharded-channel subscriptions and waits for confirmation.
// Requires cluster mode and server support for sharded pub/sub.
func (c *Client) SSubscribe(ctx context.Context, channels []string, timeout time.Duration) error {
	return c.blockingSubscribe(ctx, types.ModeSharded, channels, timeout)
}

// Unsubscribe removes exact-channel subscriptions and waits for confirmation.
// An empty channel list removes every desired exact channel. Unsubscribing a
// channel that was never subscribed is a no-op.
func (c *Client) Unsubscribe(ctx context.Context, channels []string, timeout time.Duration) error {
	return c.blockingUnsubscribe(ctx, types.ModeExact, channels, timeout)
}

// PUnsubscribe removes pattern subscriptions and waits for confirmation.
// An empty pattern list removes every desired pattern.
func (c *Client) PUnsubscribe(ctx context.Context, patterns []string, timeout time.Duration) error {
	return c.blockingUnsubscribe(ctx, types.ModePattern, patterns, timeout)
}

// SUnsubscribe removes sharded-channel subscriptions and waits for
// confirmation. An empty channel list removes every desired sharded channel.
func (c *Client) SUnsubscribe(ctx context.Context, channels []string, timeout time.Duration) error {
	return c.blockingUnsubscribe(ctx, types.ModeSharded, channels, timeout)
}

// ---------------------------------------------------------------------------
// Lazy subscription API
//
// Lazy variants mutate desired state, wake the reconciler, and return
// immediately without waiting for convergence.
// ---------------------------------------------------------------------------

// SubscribeLazy adds exact-channel subscriptions without waiting for
// confirmation.
func (c *Client) SubscribeLazy(channels []string) error {
	return c.lazySubscribe(types.ModeExact, channels)
}

// PSubscribeLazy adds pattern subscriptions without waiting for confirmation.
func (c *Client) PSubscribeLazy(patterns []string) error {
	return c.lazySubscribe(types.ModePattern, patterns)
}

// SSubscribeLazy adds sharded-channel subscriptions without waiting for
// confirmation.
func (c *Client) SSubscribeLazy(channels []string) error {
	return c.lazySubscribe(types.ModeSharded, channels)
}

// UnsubscribeLazy removes exact-channel subscriptions without waiting for
// confirmation. An empty list removes every desired exact channel.
func (c *Client) UnsubscribeLazy(channels []string) error {
	_, err := c.lazyUnsubscribe(types.ModeExact, channels)

	return err
}

// PUnsubscribeLazy removes pattern subscriptions without waiting for
// confirmation. An empty list removes every desired pattern.
func (c *Client) PUnsubscribeLazy(patterns []string) error {
	_, err := c.lazyUnsubscribe(types.ModePattern, patterns)

	return err
}

// SUnsubscribeLazy removes sharded-channel subscriptions without waiting for
// confirmation. An empty list removes every desired sharded channel.
func (c *Client) SUnsubscribeLazy(channels []string) error {
	_, err := c.lazyUnsubscribe(types.ModeSharded, channels)

	return err
}

// ---------------------------------------------------------------------------
// Inspection API
// ---------------------------------------------------------------------------

// GetSubscriptions returns an immutable snapshot of the desired and actual
// subscription sets. Never blocks and never triggers reconciliation.
func (c *Client) GetSubscriptions() types.Snapshot {
	return c.state.Snapshot()
}

// GetStatistics returns a stable key-value snapshot of the client's
// subscription statistics. The key set is additive-only: new keys may
// appear, existing keys never change meaning. See the Stat* constants.
func (c *Client) GetStatistics() map[string]uint64 {
	return map[string]uint64{
		StatOutOfSyncCount:      c.stats.OutOfSyncCount(),
		StatLastSyncTimestampMs: c.stats.LastSyncMs(),
		StatReconcilePassCount:  c.stats.PassCount(),
		StatMessagesDelivered:   c.stats.DeliveredCount(),
		StatMessagesDropped:     c.stats.DroppedCount(),
	}
}

// ---------------------------------------------------------------------------
// Message retrieval (poll mode only)
// ---------------------------------------------------------------------------

// GetMessage blocks until a pub/sub message is available, the client closes,
// or ctx is done.
//
// Returns ErrCallbackConfigured on a callback-configured client and
// ErrClosed once the client is closed and the queue is drained.
func (c *Client) GetMessage(ctx context.Context) (*types.Message, error) {
	return c.delivery.get(ctx)
}

// TryGetMessage dequeues a pub/sub message if one is available, else returns
// (nil, nil) immediately. Never blocks.
//
// Returns ErrCallbackConfigured on a callback-configured client.
func (c *Client) TryGetMessage() (*types.Message, error) {
	return c.delivery.tryGet()
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// lazySubscribe validates and applies a desired-state add for one mode.
// Validation happens before any state mutation.
func (c *Client) lazySubscribe(mode types.ChannelMode, channels []string) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}
	if mode == types.ModeSharded {
		if err := c.checkSharded(); err != nil {
			return err
		}
	}

	c.state.UpdateDesired(mode, channels, nil)
	c.reconciler.Signal()

	return nil
}

// lazyUnsubscribe applies a desired-state remove for one mode. An empty
// channel list drains the mode. Returns the channels that were removed so
// blocking callers know what to wait on.
func (c *Client) lazyUnsubscribe(mode types.ChannelMode, channels []string) ([]string, error) {
	if mode == types.ModeSharded {
		if err := c.checkSharded(); err != nil {
			return nil, err
		}
	}

	if len(channels) == 0 {
		drained, _ := c.state.DrainDesired(mode)
		c.reconciler.Signal()

		return drained, nil
	}

	c.state.UpdateDesired(mode, nil, channels)
	c.reconciler.Signal()

	return channels, nil
}

func (c *Client) blockingSubscribe(ctx context.Context, mode types.ChannelMode, channels []string, timeout time.Duration) error {
	if timeout < 0 {
		return fmt.Errorf("%w, got: %v", ErrInvalidTimeout, timeout)
	}
	if err := c.lazySubscribe(mode, channels); err != nil {
		return err
	}

	return c.waitFor(ctx, timeout, func() bool {
		return c.state.ActualContainsAll(mode, channels)
	})
}

func (c *Client) blockingUnsubscribe(ctx context.Context, mode types.ChannelMode, channels []string, timeout time.Duration) error {
	if timeout < 0 {
		return fmt.Errorf("%w, got: %v", ErrInvalidTimeout, timeout)
	}
	removed, err := c.lazyUnsubscribe(mode, channels)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		// Nothing was desired in this mode; already converged.
		return nil
	}

	return c.waitFor(ctx, timeout, func() bool {
		return c.state.ActualContainsNone(mode, removed)
	})
}

// checkSharded gates sharded operations on cluster mode and server support.
func (c *Client) checkSharded() error {
	if !c.cfg.ClusterMode {
		return ErrClusterModeRequired
	}
	if !c.conn.SupportsSharded() {
		return ErrShardedNotSupported
	}

	return nil
}

// waitFor polls the convergence predicate until it holds or the timeout
// elapses. Waiters wake on pass-completion notifications and on a short
// fallback ticker; they never busy-spin.
func (c *Client) waitFor(ctx context.Context, timeout time.Duration, converged func() bool) error {
	if converged() {
		return nil
	}
	if timeout == 0 {
		// 0 grants no grace period: fail unless already synced.
		return ErrSyncTimeout
	}

	passCh, stopListening := c.reconciler.Listen()
	defer stopListening()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(c.cfg.WaitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if converged() {
				return nil
			}

			return ErrSyncTimeout
		case <-passCh:
		case <-ticker.C:
		}

		if converged() {
			return nil
		}
	}
}
