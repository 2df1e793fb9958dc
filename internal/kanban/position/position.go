// Package position computes the range shifts that keep sibling positions
// dense (a contiguous zero-based run with no gaps or duplicates) under
// insertion, removal, and reorder. The helpers are pure; the column and
// card stores translate the returned instructions into SQL updates inside
// their transactions.
package position

// Unbounded marks a shift with no upper limit: every sibling at or above
// Lower moves. Stores must translate it into an open-ended predicate
// ("position >= lower"), never a literal numeric bound.
const Unbounded = -1

// Shift instructs the caller to add Delta to every sibling position p with
// Lower <= p <= Upper (or Lower <= p when Upper is Unbounded).
type Shift struct {
	Lower int
	Upper int
	Delta int
}

// Bounded reports whether the shift has an upper limit.
func (s Shift) Bounded() bool {
	return s.Upper != Unbounded
}

// Covers reports whether position p falls inside the shift range.
func (s Shift) Covers(p int) bool {
	return p >= s.Lower && (!s.Bounded() || p <= s.Upper)
}

// Clamp limits a requested insertion position to at most "append at end"
// for a sibling set whose current maximum position is maxPos (-1 when
// empty). Over-large requests degrade gracefully to append.
func Clamp(requested, maxPos int) int {
	if requested > maxPos+1 {
		return maxPos + 1
	}
	return requested
}

// InsertAt resolves an insertion into a sibling set with current maximum
// position maxPos. It returns the clamped actual position and, when the
// insertion lands on an occupied slot, the +1 shift that makes room.
func InsertAt(maxPos, requested int) (int, []Shift) {
	actual := Clamp(requested, maxPos)
	if actual <= maxPos {
		return actual, []Shift{{Lower: actual, Upper: maxPos, Delta: +1}}
	}
	return actual, nil
}

// Remove returns the shift that closes the gap left by removing the
// sibling at pos: everything after it slides down by one.
func Remove(pos int) []Shift {
	return []Shift{{Lower: pos + 1, Upper: Unbounded, Delta: -1}}
}

// Move returns the single shift realizing a within-parent reorder of one
// sibling from position `from` to position `to`; the moved sibling itself
// is then written directly to `to`. Returns nil when from == to (no-op).
//
// Forward move: the block (from, to] slides back by one.
// Backward move: the block [to, from) slides forward by one.
func Move(from, to int) []Shift {
	switch {
	case to > from:
		return []Shift{{Lower: from + 1, Upper: to, Delta: -1}}
	case to < from:
		return []Shift{{Lower: to, Upper: from - 1, Delta: +1}}
	default:
		return nil
	}
}

// Splice is the remove-at + insert-at primitive shared by cross-parent
// moves: the source sibling set closes its gap while the target set makes
// room. It returns the source shift, the clamped target position, and the
// target shift (nil when the insertion appends).
func Splice(fromPos, targetMaxPos, requested int) (source []Shift, actual int, target []Shift) {
	source = Remove(fromPos)
	actual, target = InsertAt(targetMaxPos, requested)
	return source, actual, target
}

// Apply runs a set of shifts over an in-memory position slice. Only the
// tests and callers that precompute full (id, position) assignments use
// it; the stores apply shifts as SQL updates instead.
func Apply(positions []int, shifts []Shift) []int {
	out := make([]int, len(positions))
	copy(out, positions)
	for _, s := range shifts {
		for i, p := range out {
			if s.Covers(p) {
				out[i] = p + s.Delta
			}
		}
	}
	return out
}
