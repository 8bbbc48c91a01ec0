package types

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// ChannelMode identifies one of the independent pub/sub namespaces.
//
// A channel name may appear in more than one mode at the same time: an exact
// and a pattern subscription to the same literal string are independent, and
// both fire when a published channel matches.
type ChannelMode int

const (
	// ModeExact matches published channels by literal name.
	ModeExact ChannelMode = iota

	// ModePattern matches published channels by glob-style pattern.
	ModePattern

	// ModeSharded matches sharded publications by literal name.
	// Valid only in cluster mode against servers that support sharded pub/sub.
	ModeSharded
)

// Modes lists all channel modes in a stable iteration order.
func Modes() []ChannelMode {
	return []ChannelMode{ModeExact, ModePattern, ModeSharded}
}

// String returns the string representation of the mode.
func (m ChannelMode) String() string {
	switch m {
	case ModeExact:
		return "Exact"
	case ModePattern:
		return "Pattern"
	case ModeSharded:
		return "Sharded"
	default:
		return "Unknown"
	}
}

// ModeSet maps each channel mode to a set of channel names.
//
// Membership-only semantics; insertion order is irrelevant. The zero value is
// not usable, construct with NewModeSet. ModeSet itself is not synchronized;
// concurrent access is coordinated by the owner (see internal/state).
type ModeSet map[ChannelMode]map[string]struct{}

// NewModeSet creates an empty ModeSet with all mode namespaces initialized.
func NewModeSet() ModeSet {
	s := make(ModeSet, len(Modes()))
	for _, m := range Modes() {
		s[m] = make(map[string]struct{})
	}

	return s
}

// Add inserts the given channel names into the mode's namespace.
//
// Returns:
//   - int: Number of names that were not already present
func (s ModeSet) Add(mode ChannelMode, names ...string) int {
	added := 0
	for _, name := range names {
		if _, ok := s[mode][name]; !ok {
			s[mode][name] = struct{}{}
			added++
		}
	}

	return added
}

// Remove deletes the given channel names from the mode's namespace.
// Removing a name that is not present is a no-op.
//
// Returns:
//   - int: Number of names that were present and removed
func (s ModeSet) Remove(mode ChannelMode, names ...string) int {
	removed := 0
	for _, name := range names {
		if _, ok := s[mode][name]; ok {
			delete(s[mode], name)
			removed++
		}
	}

	return removed
}

// Contains reports whether the channel name is present in the mode's namespace.
func (s ModeSet) Contains(mode ChannelMode, name string) bool {
	_, ok := s[mode][name]

	return ok
}

// Count returns the number of channels in the mode's namespace.
func (s ModeSet) Count(mode ChannelMode) int {
	return len(s[mode])
}

// Len returns the total number of channels across all modes.
func (s ModeSet) Len() int {
	n := 0
	for _, m := range Modes() {
		n += len(s[m])
	}

	return n
}

// Channels returns the channel names in the mode's namespace, sorted for
// deterministic output.
func (s ModeSet) Channels(mode ChannelMode) []string {
	names := make([]string, 0, len(s[mode]))
	for name := range s[mode] {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Clone returns a deep copy of the ModeSet.
func (s ModeSet) Clone() ModeSet {
	c := make(ModeSet, len(Modes()))
	for _, m := range Modes() {
		inner := make(map[string]struct{}, len(s[m]))
		for name := range s[m] {
			inner[name] = struct{}{}
		}
		c[m] = inner
	}

	return c
}

// Equal reports whether both sets contain exactly the same channels per mode.
func (s ModeSet) Equal(other ModeSet) bool {
	for _, m := range Modes() {
		if len(s[m]) != len(other[m]) {
			return false
		}
		for name := range s[m] {
			if _, ok := other[m][name]; !ok {
				return false
			}
		}
	}

	return true
}

// Diff computes the per-mode symmetric difference against other.
//
// toAdd contains channels present in s but missing from other; toRemove
// contains channels present in other but missing from s. Modes with no
// difference are omitted from the result maps.
//
// Returns:
//   - toAdd: Channels to add per mode, sorted
//   - toRemove: Channels to remove per mode, sorted
func (s ModeSet) Diff(other ModeSet) (toAdd, toRemove map[ChannelMode][]string) {
	toAdd = make(map[ChannelMode][]string)
	toRemove = make(map[ChannelMode][]string)

	for _, m := range Modes() {
		var add, del []string
		for name := range s[m] {
			if _, ok := other[m][name]; !ok {
				add = append(add, name)
			}
		}
		for name := range other[m] {
			if _, ok := s[m][name]; !ok {
				del = append(del, name)
			}
		}
		if len(add) > 0 {
			sort.Strings(add)
			toAdd[m] = add
		}
		if len(del) > 0 {
			sort.Strings(del)
			toRemove[m] = del
		}
	}

	return toAdd, toRemove
}

// Snapshot is an immutable copy of the desired and actual subscription sets,
// as returned by Client.GetSubscriptions.
type Snapshot struct {
	// Desired is the subscription set callers have asked for.
	Desired ModeSet

	// Actual is the subscription set last confirmed with the server.
	Actual ModeSet
}

// SlotCount is the number of hash slots used for sharded channel routing.
const SlotCount = 16384

// SlotForChannel computes the hash slot a sharded channel routes to.
//
// If the channel name contains a non-empty hash tag ("{...}"), only the tag
// content is hashed, so related channels can be pinned to the same slot.
//
// Returns:
//   - uint16: Slot in the range [0, SlotCount)
func SlotForChannel(channel string) uint16 {
	if open := strings.IndexByte(channel, '{'); open >= 0 {
		if close := strings.IndexByte(channel[open+1:], '}'); close > 0 {
			channel = channel[open+1 : open+1+close]
		}
	}

	return uint16(xxh3.HashString(channel) % SlotCount)
}
