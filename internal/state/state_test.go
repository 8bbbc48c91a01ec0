package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valkey-io/valkey-glide-sub001/types"
)

func TestStateDesired(t *testing.T) {
	t.Run("update bumps version", func(t *testing.T) {
		st := New()

		require.Equal(t, uint64(0), st.Version())

		v1 := st.UpdateDesired(types.ModeExact, []string{"a"}, nil)
		v2 := st.UpdateDesired(types.ModeExact, []string{"b"}, nil)

		require.Equal(t, uint64(1), v1)
		require.Equal(t, uint64(2), v2)
		require.True(t, st.DesiredContains(types.ModeExact, "a"))
		require.True(t, st.DesiredContains(types.ModeExact, "b"))
	})

	t.Run("remove", func(t *testing.T) {
		st := New()

		st.UpdateDesired(types.ModeExact, []string{"a", "b"}, nil)
		st.UpdateDesired(types.ModeExact, nil, []string{"a"})

		require.False(t, st.DesiredContains(types.ModeExact, "a"))
		require.True(t, st.DesiredContains(types.ModeExact, "b"))
	})

	t.Run("drain removes everything in one mode", func(t *testing.T) {
		st := New()

		st.UpdateDesired(types.ModePattern, []string{"b.*", "a.*"}, nil)
		st.UpdateDesired(types.ModeExact, []string{"keep"}, nil)

		drained, version := st.DrainDesired(types.ModePattern)

		require.Equal(t, []string{"a.*", "b.*"}, drained)
		require.Equal(t, uint64(3), version)
		require.True(t, st.DesiredContains(types.ModeExact, "keep"))
		require.False(t, st.DesiredContains(types.ModePattern, "a.*"))
	})

	t.Run("drain of empty mode returns nothing", func(t *testing.T) {
		st := New()

		drained, _ := st.DrainDesired(types.ModeSharded)

		require.Empty(t, drained)
	})
}

func TestStateDiffAndCommit(t *testing.T) {
	st := New()

	st.UpdateDesired(types.ModeExact, []string{"a", "b"}, nil)

	toAdd, toRemove, _ := st.Diff()
	require.Equal(t, []string{"a", "b"}, toAdd[types.ModeExact])
	require.Empty(t, toRemove)
	require.False(t, st.InSync())

	st.CommitActual(types.ModeExact, []string{"a", "b"}, nil)

	toAdd, toRemove, _ = st.Diff()
	require.Empty(t, toAdd)
	require.Empty(t, toRemove)
	require.True(t, st.InSync())

	// Desired shrinks; actual now has a leftover to remove
	st.UpdateDesired(types.ModeExact, nil, []string{"a"})

	toAdd, toRemove, _ = st.Diff()
	require.Empty(t, toAdd)
	require.Equal(t, []string{"a"}, toRemove[types.ModeExact])

	st.CommitActual(types.ModeExact, nil, []string{"a"})
	require.True(t, st.InSync())
}

func TestStateResetActual(t *testing.T) {
	st := New()

	st.UpdateDesired(types.ModeExact, []string{"a"}, nil)
	st.CommitActual(types.ModeExact, []string{"a"}, nil)
	require.True(t, st.InSync())

	st.ResetActual()

	require.False(t, st.InSync())
	toAdd, _, _ := st.Diff()
	require.Equal(t, []string{"a"}, toAdd[types.ModeExact])
}

func TestStateWaiterPredicates(t *testing.T) {
	st := New()

	st.CommitActual(types.ModeExact, []string{"a", "b"}, nil)

	require.True(t, st.ActualContainsAll(types.ModeExact, []string{"a", "b"}))
	require.False(t, st.ActualContainsAll(types.ModeExact, []string{"a", "c"}))
	require.True(t, st.ActualContainsAll(types.ModeExact, nil))

	require.True(t, st.ActualContainsNone(types.ModeExact, []string{"x", "y"}))
	require.False(t, st.ActualContainsNone(types.ModeExact, []string{"x", "b"}))
}

func TestStateSnapshot(t *testing.T) {
	st := New()

	st.UpdateDesired(types.ModeExact, []string{"a"}, nil)
	st.CommitActual(types.ModeExact, []string{"a"}, nil)

	snap := st.Snapshot()

	require.True(t, snap.Desired.Contains(types.ModeExact, "a"))
	require.True(t, snap.Actual.Contains(types.ModeExact, "a"))

	// Mutating the snapshot must not leak back into live state
	snap.Desired.Add(types.ModeExact, "b")
	require.False(t, st.DesiredContains(types.ModeExact, "b"))
}

func TestStateDesiredCounts(t *testing.T) {
	st := New()

	st.UpdateDesired(types.ModeExact, []string{"a", "b"}, nil)
	st.UpdateDesired(types.ModeSharded, []string{"s"}, nil)

	counts := st.DesiredCounts()

	require.Equal(t, 2, counts[types.ModeExact])
	require.Equal(t, 0, counts[types.ModePattern])
	require.Equal(t, 1, counts[types.ModeSharded])
}

func TestStats(t *testing.T) {
	s := NewStats()

	s.RecordOutOfSync()
	s.RecordOutOfSync()
	s.RecordSynced(1234)
	s.RecordDelivered()
	s.RecordDropped()

	require.Equal(t, uint64(2), s.OutOfSyncCount())
	require.Equal(t, uint64(1234), s.LastSyncMs())
	require.Equal(t, uint64(3), s.PassCount())
	require.Equal(t, uint64(1), s.DeliveredCount())
	require.Equal(t, uint64(1), s.DroppedCount())
}
