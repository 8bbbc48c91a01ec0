// Package state holds the client's subscription state: the desired and
// actual channel sets per mode, and the per-client statistics counters.
package state

import (
	"sync"

	"github.com/valkey-io/valkey-glide-sub001/types"
)

// State is the single shared mutable resource of the reconciliation engine.
//
// Ownership discipline:
//   - desired is mutated only by the subscription API
//   - actual is mutated only by the reconciler
//
// This separation is what makes "desired update is immediate, actual update
// is eventual" observable. All access goes through one mutex with short
// critical sections; no protocol I/O happens under the lock.
type State struct {
	mu      sync.Mutex
	desired types.ModeSet
	actual  types.ModeSet
	version uint64
}

// New creates an empty State.
func New() *State {
	return &State{
		desired: types.NewModeSet(),
		actual:  types.NewModeSet(),
	}
}

// UpdateDesired applies an add or remove mutation to the desired set for one
// mode and bumps the version. add and remove are mutually exclusive per call;
// passing both non-empty is a programming error upstream, remove wins last as
// written order here is add-then-remove.
//
// Returns:
//   - uint64: The new state version
func (s *State) UpdateDesired(mode types.ChannelMode, add, remove []string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.desired.Add(mode, add...)
	s.desired.Remove(mode, remove...)
	s.version++

	return s.version
}

// DrainDesired removes every desired channel in the given mode and bumps the
// version. Used by unsubscribe calls with no explicit channels.
//
// Returns:
//   - []string: The channels that were removed, sorted
//   - uint64: The new state version
func (s *State) DrainDesired(mode types.ChannelMode) ([]string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.desired.Channels(mode)
	s.desired.Remove(mode, names...)
	s.version++

	return names, s.version
}

// DesiredContains reports whether the desired set holds the channel.
func (s *State) DesiredContains(mode types.ChannelMode, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.desired.Contains(mode, name)
}

// Snapshot returns deep copies of desired and actual taken under one lock
// acquisition, so the pair is internally consistent.
func (s *State) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.Snapshot{
		Desired: s.desired.Clone(),
		Actual:  s.actual.Clone(),
	}
}

// Diff computes the per-mode delta the reconciler must apply:
// toAdd = desired - actual, toRemove = actual - desired.
//
// Returns:
//   - toAdd: Channels to subscribe per mode
//   - toRemove: Channels to unsubscribe per mode
//   - version: State version the diff was computed against
func (s *State) Diff() (toAdd, toRemove map[types.ChannelMode][]string, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toAdd, toRemove = s.desired.Diff(s.actual)

	return toAdd, toRemove, s.version
}

// CommitActual records channels the server confirmed as subscribed (add) or
// unsubscribed (remove) for one mode. Reconciler-only.
func (s *State) CommitActual(mode types.ChannelMode, add, remove []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actual.Add(mode, add...)
	s.actual.Remove(mode, remove...)
}

// ResetActual clears the actual set for all modes. Called on reconnect, when
// the server has forgotten this connection's subscriptions.
func (s *State) ResetActual() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actual = types.NewModeSet()
}

// InSync reports whether actual currently equals desired across all modes.
func (s *State) InSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.desired.Equal(s.actual)
}

// ActualContainsAll reports whether every given channel is present in the
// actual set for the mode. Used by blocking subscribe waiters.
func (s *State) ActualContainsAll(mode types.ChannelMode, names []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if !s.actual.Contains(mode, name) {
			return false
		}
	}

	return true
}

// ActualContainsNone reports whether none of the given channels are present
// in the actual set for the mode. Used by blocking unsubscribe waiters.
func (s *State) ActualContainsNone(mode types.ChannelMode, names []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if s.actual.Contains(mode, name) {
			return false
		}
	}

	return true
}

// Version returns the current state version. The version increments on every
// desired-state mutation, letting waiters detect "reconciliation attempted
// since my request" without diffing full sets.
func (s *State) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// DesiredCounts returns the desired channel count per mode, for gauge export.
func (s *State) DesiredCounts() map[types.ChannelMode]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[types.ChannelMode]int, len(types.Modes()))
	for _, m := range types.Modes() {
		counts[m] = s.desired.Count(m)
	}

	return counts
}
