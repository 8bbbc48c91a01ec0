package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelModeString(t *testing.T) {
	require.Equal(t, "Exact", ModeExact.String())
	require.Equal(t, "Pattern", ModePattern.String())
	require.Equal(t, "Sharded", ModeSharded.String())
	require.Equal(t, "Unknown", ChannelMode(42).String())
}

func TestModeSet(t *testing.T) {
	t.Run("add and contains", func(t *testing.T) {
		s := NewModeSet()

		require.Equal(t, 2, s.Add(ModeExact, "a", "b"))
		require.Equal(t, 0, s.Add(ModeExact, "a", "b"))
		require.True(t, s.Contains(ModeExact, "a"))
		require.False(t, s.Contains(ModeExact, "c"))
		require.Equal(t, 2, s.Count(ModeExact))
	})

	t.Run("modes are independent namespaces", func(t *testing.T) {
		s := NewModeSet()

		s.Add(ModeExact, "news")
		s.Add(ModePattern, "news")

		require.True(t, s.Contains(ModeExact, "news"))
		require.True(t, s.Contains(ModePattern, "news"))
		require.False(t, s.Contains(ModeSharded, "news"))
		require.Equal(t, 2, s.Len())

		s.Remove(ModeExact, "news")
		require.False(t, s.Contains(ModeExact, "news"))
		require.True(t, s.Contains(ModePattern, "news"))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		s := NewModeSet()

		s.Add(ModeExact, "a")
		require.Equal(t, 1, s.Remove(ModeExact, "a", "missing"))
		require.Equal(t, 0, s.Remove(ModeExact, "a"))
	})

	t.Run("channels returns sorted names", func(t *testing.T) {
		s := NewModeSet()

		s.Add(ModeExact, "c", "a", "b")
		require.Equal(t, []string{"a", "b", "c"}, s.Channels(ModeExact))
		require.Empty(t, s.Channels(ModePattern))
	})

	t.Run("clone is a deep copy", func(t *testing.T) {
		s := NewModeSet()
		s.Add(ModeExact, "a")

		c := s.Clone()
		c.Add(ModeExact, "b")
		c.Remove(ModeExact, "a")

		require.True(t, s.Contains(ModeExact, "a"))
		require.False(t, s.Contains(ModeExact, "b"))
	})

	t.Run("equal", func(t *testing.T) {
		a := NewModeSet()
		b := NewModeSet()

		require.True(t, a.Equal(b))

		a.Add(ModeExact, "x")
		require.False(t, a.Equal(b))

		b.Add(ModeExact, "x")
		require.True(t, a.Equal(b))

		b.Add(ModePattern, "x")
		require.False(t, a.Equal(b))
	})

	t.Run("diff", func(t *testing.T) {
		desired := NewModeSet()
		actual := NewModeSet()

		desired.Add(ModeExact, "a", "b")
		desired.Add(ModePattern, "p.*")
		actual.Add(ModeExact, "b", "c")

		toAdd, toRemove := desired.Diff(actual)

		require.Equal(t, []string{"a"}, toAdd[ModeExact])
		require.Equal(t, []string{"p.*"}, toAdd[ModePattern])
		require.Equal(t, []string{"c"}, toRemove[ModeExact])
		require.NotContains(t, toRemove, ModePattern)
		require.NotContains(t, toAdd, ModeSharded)
	})

	t.Run("diff of equal sets is empty", func(t *testing.T) {
		a := NewModeSet()
		b := NewModeSet()
		a.Add(ModeSharded, "s")
		b.Add(ModeSharded, "s")

		toAdd, toRemove := a.Diff(b)

		require.Empty(t, toAdd)
		require.Empty(t, toRemove)
	})
}

func TestSlotForChannel(t *testing.T) {
	t.Run("slot is in range", func(t *testing.T) {
		for _, ch := range []string{"", "a", "orders", "user:1234:events"} {
			slot := SlotForChannel(ch)
			require.Less(t, int(slot), SlotCount)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, SlotForChannel("orders"), SlotForChannel("orders"))
	})

	t.Run("hash tag pins related channels to one slot", func(t *testing.T) {
		a := SlotForChannel("{user:42}:events")
		b := SlotForChannel("{user:42}:notifications")
		tag := SlotForChannel("user:42")

		require.Equal(t, a, b)
		require.Equal(t, tag, a)
	})

	t.Run("empty hash tag is ignored", func(t *testing.T) {
		require.Equal(t, SlotForChannel("a{}b"), SlotForChannel("a{}b"))
		// "{}" carries no tag content, so the whole name is hashed
		require.NotEqual(t, SlotForChannel("a{}b"), SlotForChannel("c{}d"))
	})
}
