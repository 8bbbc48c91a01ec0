package types

import "context"

// Hooks defines callbacks for subscription lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the reconciliation loop. Hooks receive the client's
// lifecycle context, which is cancelled during shutdown.
//
// Hook execution behavior:
//   - Hooks run concurrently and may not complete before Close() returns
//   - Hook errors are logged but don't fail reconciliation
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Make hooks idempotent
type Hooks struct {
	// OnSyncLost is called when a reconciliation pass first ends with
	// desired != actual after having been in sync.
	// pending: channels per mode that could not be applied
	OnSyncLost func(ctx context.Context, pending map[ChannelMode][]string) error

	// OnSyncRestored is called when a reconciliation pass restores
	// desired == actual after a period out of sync.
	OnSyncRestored func(ctx context.Context) error
}
