package timerange

import (
	"strings"

	"github.com/leapstack-labs/leapanim/pkg/rational"
)

// List is a set of time covered by disjoint ranges kept in ascending order.
// Inserting a range that touches or overlaps existing ones merges them.
// The zero value is an empty list.
type List struct {
	ranges []Range
}

// Insert adds r to the list.
func (l *List) Insert(r Range) {
	merged := r
	out := make([]Range, 0, len(l.ranges)+1)
	placed := false

	for _, cur := range l.ranges {
		switch {
		case cur.out.Less(merged.in):
			out = append(out, cur)
		case merged.out.Less(cur.in):
			if !placed {
				out = append(out, merged)
				placed = true
			}
			out = append(out, cur)
		default:
			merged = merged.Union(cur)
		}
	}
	if !placed {
		out = append(out, merged)
	}

	l.ranges = out
}

// Remove subtracts r from the list, splitting ranges where needed.
func (l *List) Remove(r Range) {
	out := make([]Range, 0, len(l.ranges)+1)
	for _, cur := range l.ranges {
		if !cur.Overlaps(r) {
			out = append(out, cur)
			continue
		}
		if cur.in.Less(r.in) {
			out = append(out, Range{in: cur.in, out: r.in})
		}
		if r.out.Less(cur.out) {
			out = append(out, Range{in: r.out, out: cur.out})
		}
	}
	l.ranges = out
}

// Contains reports whether t is covered by any range in the list.
func (l *List) Contains(t rational.Rational) bool {
	for _, r := range l.ranges {
		if r.Contains(t) {
			return true
		}
		if t.Less(r.in) {
			return false
		}
	}
	return false
}

// ContainsRange reports whether r is covered entirely by a single range in the list.
func (l *List) ContainsRange(r Range) bool {
	for _, cur := range l.ranges {
		if cur.ContainsRange(r) {
			return true
		}
	}
	return false
}

// Ranges returns a copy of the disjoint ranges in ascending order.
func (l *List) Ranges() []Range {
	return append([]Range(nil), l.ranges...)
}

// Len returns the number of disjoint ranges.
func (l *List) Len() int {
	return len(l.ranges)
}

// Clear empties the list.
func (l *List) Clear() {
	l.ranges = nil
}

func (l *List) String() string {
	parts := make([]string, len(l.ranges))
	for i, r := range l.ranges {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
