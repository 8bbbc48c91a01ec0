package testing

import (
	"context"
	"sync"

	"github.com/valkey-io/valkey-glide-sub001/internal/glob"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// MemoryConn is an in-memory types.Conn implementation backed by a tiny
// single-client broker.
//
// It models the server behaviors the reconciliation engine must handle:
//   - per-channel ACL denial of SUBSCRIBE (UNSUBSCRIBE always succeeds)
//   - reconnects that wipe server-side subscription state
//   - dual delivery when a publish matches both an exact and a pattern
//     subscription
//   - an independent sharded namespace, optionally unsupported
//
// All methods are safe for concurrent use. Publish delivers synchronously on
// the caller's goroutine.
type MemoryConn struct {
	mu          sync.Mutex
	subs        types.ModeSet
	denied      map[types.ChannelMode]map[string]struct{}
	sharded     bool
	msgFn       types.MessageFunc
	reconnectFn types.ReconnectFunc

	subscribeCalls   int
	unsubscribeCalls int
}

// Compile-time assertion that MemoryConn implements Conn.
var _ types.Conn = (*MemoryConn)(nil)

// NewMemoryConn creates a MemoryConn with sharded pub/sub supported and no
// denials configured.
func NewMemoryConn() *MemoryConn {
	denied := make(map[types.ChannelMode]map[string]struct{})
	for _, m := range types.Modes() {
		denied[m] = make(map[string]struct{})
	}

	return &MemoryConn{
		subs:    types.NewModeSet(),
		denied:  denied,
		sharded: true,
	}
}

// SetSupportsSharded toggles server-side sharded pub/sub support.
func (m *MemoryConn) SetSupportsSharded(supported bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sharded = supported
}

// Deny makes future SUBSCRIBE requests for the given channels fail with
// ResultDenied, simulating an ACL restriction. Already-established
// subscriptions are not revoked.
func (m *MemoryConn) Deny(mode types.ChannelMode, channels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range channels {
		m.denied[mode][ch] = struct{}{}
	}
}

// Allow removes channels from the deny set, simulating a permission grant.
func (m *MemoryConn) Allow(mode types.ChannelMode, channels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ch := range channels {
		delete(m.denied[mode], ch)
	}
}

// Subscribe implements types.Conn.
func (m *MemoryConn) Subscribe(_ context.Context, mode types.ChannelMode, channels []string) ([]types.SubscribeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribeCalls++

	results := make([]types.SubscribeResult, 0, len(channels))
	for _, ch := range channels {
		if _, deny := m.denied[mode][ch]; deny {
			results = append(results, types.SubscribeResult{Channel: ch, Status: types.ResultDenied})

			continue
		}
		m.subs.Add(mode, ch)
		results = append(results, types.SubscribeResult{Channel: ch, Status: types.ResultOK})
	}

	return results, nil
}

// Unsubscribe implements types.Conn. Unsubscribes always succeed, including
// for denied channels.
func (m *MemoryConn) Unsubscribe(_ context.Context, mode types.ChannelMode, channels []string) ([]types.SubscribeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unsubscribeCalls++

	results := make([]types.SubscribeResult, 0, len(channels))
	for _, ch := range channels {
		m.subs.Remove(mode, ch)
		results = append(results, types.SubscribeResult{Channel: ch, Status: types.ResultOK})
	}

	return results, nil
}

// Publish implements types.Conn, routing to the registered message handler.
//
// Sharded publications reach only sharded subscribers of the exact name;
// regular publications reach the exact subscriber plus every matching
// pattern subscriber, one message each.
func (m *MemoryConn) Publish(_ context.Context, channel string, payload []byte, sharded bool) (int, error) {
	m.mu.Lock()
	fn := m.msgFn
	if sharded && !m.sharded {
		m.mu.Unlock()

		return 0, types.ErrShardedNotSupported
	}

	var deliveries []*types.Message
	if sharded {
		if m.subs.Contains(types.ModeSharded, channel) {
			deliveries = append(deliveries, &types.Message{Channel: channel, Payload: payload})
		}
	} else {
		if m.subs.Contains(types.ModeExact, channel) {
			deliveries = append(deliveries, &types.Message{Channel: channel, Payload: payload})
		}
		for _, pattern := range m.subs.Channels(types.ModePattern) {
			if glob.Match(pattern, channel) {
				deliveries = append(deliveries, &types.Message{Channel: channel, Payload: payload, Pattern: pattern})
			}
		}
	}
	m.mu.Unlock()

	if fn == nil {
		return 0, nil
	}
	for _, msg := range deliveries {
		fn(msg)
	}

	return len(deliveries), nil
}

// SupportsSharded implements types.Conn.
func (m *MemoryConn) SupportsSharded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sharded
}

// OnMessage implements types.Conn.
func (m *MemoryConn) OnMessage(fn types.MessageFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msgFn = fn
}

// OnReconnect implements types.Conn.
func (m *MemoryConn) OnReconnect(fn types.ReconnectFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reconnectFn = fn
}

// TriggerReconnect simulates a connection drop and re-establishment: all
// server-side subscriptions are forgotten, then the reconnect handler fires.
func (m *MemoryConn) TriggerReconnect() {
	m.mu.Lock()
	m.subs = types.NewModeSet()
	fn := m.reconnectFn
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// ServerSubscriptions returns a copy of the server-observed subscription
// set, for test assertions.
func (m *MemoryConn) ServerSubscriptions() types.ModeSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.subs.Clone()
}

// Calls reports how many subscribe and unsubscribe batches the server saw.
func (m *MemoryConn) Calls() (subscribes, unsubscribes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.subscribeCalls, m.unsubscribeCalls
}
