package hooks

import (
	"context"

	"github.com/valkey-io/valkey-glide-sub001/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, map[types.ChannelMode][]string) error = (*NopHooks)(nil).OnSyncLost
	_ func(context.Context) error                                 = (*NopHooks)(nil).OnSyncRestored
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnSyncLost:     h.OnSyncLost,
		OnSyncRestored: h.OnSyncRestored,
	}
}

// OnSyncLost is a no-op implementation.
func (h *NopHooks) OnSyncLost(_ context.Context, _ map[types.ChannelMode][]string) error {
	return nil
}

// OnSyncRestored is a no-op implementation.
func (h *NopHooks) OnSyncRestored(_ context.Context) error {
	return nil
}
