package state

import "sync/atomic"

// Stats holds the per-client monotonic statistics counters surfaced by
// Client.GetStatistics.
//
// Counters are plain atomics, updated independently of the state lock so
// metric updates never contend with subscription reads.
type Stats struct {
	outOfSync  atomic.Uint64
	lastSyncMs atomic.Uint64
	passes     atomic.Uint64
	delivered  atomic.Uint64
	dropped    atomic.Uint64
}

// NewStats creates a zeroed Stats.
func NewStats() *Stats {
	return &Stats{}
}

// RecordOutOfSync counts one reconciliation pass that ended with
// desired != actual. Incremented once per pass, not once per failed channel.
func (s *Stats) RecordOutOfSync() {
	s.outOfSync.Add(1)
	s.passes.Add(1)
}

// RecordSynced counts one reconciliation pass that ended with
// desired == actual, stamping the sync time.
//
// Parameters:
//   - nowMs: Current wall-clock time in Unix milliseconds
func (s *Stats) RecordSynced(nowMs uint64) {
	s.lastSyncMs.Store(nowMs)
	s.passes.Add(1)
}

// RecordDelivered counts one message handed to the caller.
func (s *Stats) RecordDelivered() {
	s.delivered.Add(1)
}

// RecordDropped counts one message discarded before delivery.
func (s *Stats) RecordDropped() {
	s.dropped.Add(1)
}

// OutOfSyncCount returns the number of passes that ended out of sync.
func (s *Stats) OutOfSyncCount() uint64 {
	return s.outOfSync.Load()
}

// LastSyncMs returns the Unix-millisecond timestamp of the most recent fully
// synced pass (0 if none yet).
func (s *Stats) LastSyncMs() uint64 {
	return s.lastSyncMs.Load()
}

// PassCount returns the total number of completed reconciliation passes.
func (s *Stats) PassCount() uint64 {
	return s.passes.Load()
}

// DeliveredCount returns the total messages handed to the caller.
func (s *Stats) DeliveredCount() uint64 {
	return s.delivered.Load()
}

// DroppedCount returns the total messages discarded before delivery.
func (s *Stats) DroppedCount() uint64 {
	return s.dropped.Load()
}
