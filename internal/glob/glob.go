// Package glob implements the glob-style pattern matching used for pattern
// subscriptions: '*' matches any sequence of characters (including none) and
// '?' matches exactly one character.
package glob

// Match reports whether channel matches pattern. Matching is byte-wise with
// iterative star backtracking, so it runs in O(len(pattern)*len(channel))
// worst case with no allocation.
func Match(pattern, channel string) bool {
	pi, ci := 0, 0
	star, mark := -1, 0

	for ci < len(channel) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == channel[ci]):
			pi++
			ci++
		case pi < len(pattern) && pattern[pi] == '*':
			// Remember the star position; try matching it against the empty
			// sequence first, extend on backtrack.
			star = pi
			mark = ci
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ci = mark
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}

	return pi == len(pattern)
}
