// Package reconcile implements the background loop that drives the
// server-observed subscription state toward the caller's desired state.
package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/valkey-io/valkey-glide-sub001/internal/state"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// Reconciler runs reconciliation passes on two triggers: a periodic timer and
// an explicit signal fired on every desired-state mutation.
//
// Passes are strictly sequential: one pass completes, including all protocol
// round-trips, before the next begins. Pass failures are never raised to
// callers; they surface through the statistics counters and through
// GetSubscriptions showing desired != actual.
type Reconciler struct {
	conn    types.Conn
	state   *state.State
	stats   *state.Stats
	metrics types.MetricsCollector
	logger  types.Logger
	hooks   types.Hooks

	interval time.Duration

	// wake is buffered so Signal never blocks; coalescing multiple signals
	// into one pending pass is intentional.
	wake chan struct{}

	// Fan-out to pass-completion listeners (blocking API waiters)
	listeners      *xsync.Map[uint64, *passListener]
	nextListenerID atomic.Uint64

	// wasInSync tracks the sync edge for hook firing. Starts true: empty
	// desired trivially equals empty actual.
	wasInSync atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// passListener receives a notification after each completed pass.
type passListener struct {
	ch chan struct{}
}

// trySend notifies without blocking; a pending notification is equivalent.
func (l *passListener) trySend() {
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

// New creates a Reconciler. The caller retains ownership of the shared state
// and stats; the reconciler is the only component that mutates actual state.
//
// Parameters:
//   - interval: Periodic pass interval (timer trigger)
//   - conn: Protocol connection the passes drive
//   - st: Shared subscription state
//   - stats: Per-client statistics counters
//   - metrics: Metrics collector for pass observation
//   - logger: Logger for pass diagnostics
//   - hooks: Lifecycle hooks (sync lost/restored edges)
func New(
	interval time.Duration,
	conn types.Conn,
	st *state.State,
	stats *state.Stats,
	metrics types.MetricsCollector,
	logger types.Logger,
	hooks types.Hooks,
) *Reconciler {
	r := &Reconciler{
		conn:      conn,
		state:     st,
		stats:     stats,
		metrics:   metrics,
		logger:    logger,
		hooks:     hooks,
		interval:  interval,
		wake:      make(chan struct{}, 1),
		listeners: xsync.NewMap[uint64, *passListener](),
	}
	r.wasInSync.Store(true)

	return r
}

// Start launches the background loop. Returns ErrAlreadyStarted if running.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return types.ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go r.run(runCtx)

	return nil
}

// Stop cancels the background loop and waits for the in-flight pass to
// finish. Safe to call multiple times.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()

		return
	}
	r.running = false
	cancel := r.cancel
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

// Signal requests an immediate reconciliation pass. Never blocks; signals
// arriving during a pass coalesce into one follow-up pass.
func (r *Reconciler) Signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Listen returns a channel that receives a notification after each completed
// reconciliation pass, plus a cleanup function. Blocking API waiters use this
// to re-check convergence without busy-polling.
func (r *Reconciler) Listen() (<-chan struct{}, func()) {
	id := r.nextListenerID.Add(1)
	l := &passListener{ch: make(chan struct{}, 1)}
	r.listeners.Store(id, l)

	remove := func() {
		r.listeners.Delete(id)
	}

	return l.ch, remove
}

// run is the loop body: pass, then sleep until timer tick or signal.
func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		r.reconcileOnce(ctx)

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.interval)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-r.wake:
		}
	}
}

// reconcileOnce performs a single diff-and-apply pass.
func (r *Reconciler) reconcileOnce(ctx context.Context) {
	start := time.Now()

	r.exportDesiredGauges()

	toAdd, toRemove, _ := r.state.Diff()
	if len(toAdd) == 0 && len(toRemove) == 0 {
		r.finishSynced(ctx, start)

		return
	}

	for _, mode := range types.Modes() {
		r.applyMode(ctx, mode, toAdd[mode], toRemove[mode])
	}

	if r.state.InSync() {
		r.finishSynced(ctx, start)

		return
	}

	r.finishOutOfSync(ctx, start)
}

// applyMode issues the subscribe/unsubscribe batches for one mode and commits
// the confirmed channels into actual state.
func (r *Reconciler) applyMode(ctx context.Context, mode types.ChannelMode, add, remove []string) {
	var confirmedAdd, confirmedRemove []string

	if len(add) > 0 {
		results, err := r.conn.Subscribe(ctx, mode, add)
		if err != nil {
			r.logger.Warn("subscribe batch failed", "mode", mode.String(), "channels", len(add), "error", err)
		} else {
			confirmedAdd = okChannels(results, mode, "subscribe", r.logger)
		}
	}

	if len(remove) > 0 {
		results, err := r.conn.Unsubscribe(ctx, mode, remove)
		if err != nil {
			r.logger.Warn("unsubscribe batch failed", "mode", mode.String(), "channels", len(remove), "error", err)
		} else {
			confirmedRemove = okChannels(results, mode, "unsubscribe", r.logger)
		}
	}

	if len(confirmedAdd) > 0 || len(confirmedRemove) > 0 {
		r.state.CommitActual(mode, confirmedAdd, confirmedRemove)
		r.metrics.RecordSubscriptionChange(mode.String(), len(confirmedAdd), len(confirmedRemove))
	}
}

// okChannels extracts the confirmed channels from per-name results, logging
// denials and errors.
func okChannels(results []types.SubscribeResult, mode types.ChannelMode, op string, logger types.Logger) []string {
	ok := make([]string, 0, len(results))
	for _, res := range results {
		switch res.Status {
		case types.ResultOK:
			ok = append(ok, res.Channel)
		case types.ResultDenied:
			logger.Debug("channel denied", "op", op, "mode", mode.String(), "channel", res.Channel)
		case types.ResultError:
			logger.Warn("channel request failed", "op", op, "mode", mode.String(), "channel", res.Channel, "error", res.Err)
		}
	}

	return ok
}

// finishSynced records a fully synced pass and fires the restored hook on
// the out-of-sync -> in-sync edge.
func (r *Reconciler) finishSynced(ctx context.Context, start time.Time) {
	r.stats.RecordSynced(uint64(time.Now().UnixMilli())) //nolint:gosec // UnixMilli is non-negative
	r.metrics.RecordReconcilePass("synced", time.Since(start).Seconds())
	r.metrics.SetSyncStatus(true)

	if r.wasInSync.CompareAndSwap(false, true) {
		r.logger.Info("subscription state back in sync")
		r.fireHook(ctx, func(hctx context.Context) error {
			if r.hooks.OnSyncRestored == nil {
				return nil
			}

			return r.hooks.OnSyncRestored(hctx)
		})
	}

	r.notifyListeners()
}

// finishOutOfSync records a failed pass (once per pass, regardless of how
// many channels failed) and fires the lost hook on the in-sync ->
// out-of-sync edge.
func (r *Reconciler) finishOutOfSync(ctx context.Context, start time.Time) {
	r.stats.RecordOutOfSync()
	r.metrics.RecordReconcilePass("out_of_sync", time.Since(start).Seconds())
	r.metrics.SetSyncStatus(false)

	if r.wasInSync.CompareAndSwap(true, false) {
		pending := r.pendingChannels()
		r.logger.Warn("subscription state out of sync", "pending_modes", len(pending))
		r.fireHook(ctx, func(hctx context.Context) error {
			if r.hooks.OnSyncLost == nil {
				return nil
			}

			return r.hooks.OnSyncLost(hctx, pending)
		})
	}

	r.notifyListeners()
}

// pendingChannels merges the remaining per-mode diff into one map for the
// sync-lost hook.
func (r *Reconciler) pendingChannels() map[types.ChannelMode][]string {
	toAdd, toRemove, _ := r.state.Diff()
	pending := make(map[types.ChannelMode][]string, len(toAdd)+len(toRemove))
	for mode, names := range toAdd {
		pending[mode] = append(pending[mode], names...)
	}
	for mode, names := range toRemove {
		pending[mode] = append(pending[mode], names...)
	}

	return pending
}

// fireHook runs a hook asynchronously; hook errors are logged, never raised.
func (r *Reconciler) fireHook(ctx context.Context, fn func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := fn(ctx); err != nil {
			r.logger.Error("subscription hook failed", "error", err)
		}
	}()
}

// notifyListeners tells every registered waiter that a pass completed.
func (r *Reconciler) notifyListeners() {
	r.listeners.Range(func(_ uint64, l *passListener) bool {
		l.trySend()

		return true
	})
}

// exportDesiredGauges publishes the current desired channel counts.
func (r *Reconciler) exportDesiredGauges() {
	for mode, count := range r.state.DesiredCounts() {
		r.metrics.SetDesiredChannels(mode.String(), count)
	}
}
