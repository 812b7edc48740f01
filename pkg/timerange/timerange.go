// Package timerange provides closed intervals over rational time and a
// merged list of them, used to describe which evaluated values a mutation
// has invalidated.
package timerange

import (
	"fmt"

	"github.com/leapstack-labs/leapanim/pkg/rational"
)

// Range is the closed interval [In, Out]. Either bound may be one of the
// rational sentinels. A Range is always normalized so In <= Out.
type Range struct {
	in  rational.Rational
	out rational.Rational
}

// New returns the range between a and b, swapping them if needed.
func New(a, b rational.Rational) Range {
	if b.Less(a) {
		a, b = b, a
	}
	return Range{in: a, out: b}
}

// All returns the range (-inf, +inf).
func All() Range {
	return Range{in: rational.Min, out: rational.Max}
}

// At returns the zero-length range [t, t].
func At(t rational.Rational) Range {
	return Range{in: t, out: t}
}

// In returns the lower bound.
func (r Range) In() rational.Rational { return r.in }

// Out returns the upper bound.
func (r Range) Out() rational.Rational { return r.out }

// WithIn returns a copy of r with a new lower bound, normalized.
func (r Range) WithIn(in rational.Rational) Range { return New(in, r.out) }

// WithOut returns a copy of r with a new upper bound, normalized.
func (r Range) WithOut(out rational.Rational) Range { return New(r.in, out) }

// Length returns Out - In. Unbounded ranges have length rational.Max.
func (r Range) Length() rational.Rational {
	if r.in.IsInf() || r.out.IsInf() {
		if r.in == r.out {
			return rational.Zero
		}
		return rational.Max
	}
	return r.out.Sub(r.in)
}

// IsAll reports whether r spans all time.
func (r Range) IsAll() bool {
	return r.in == rational.Min && r.out == rational.Max
}

// Contains reports whether t lies inside r, bounds included.
func (r Range) Contains(t rational.Rational) bool {
	return r.in.Cmp(t) <= 0 && t.Cmp(r.out) <= 0
}

// ContainsRange reports whether o lies entirely inside r.
func (r Range) ContainsRange(o Range) bool {
	return r.in.Cmp(o.in) <= 0 && o.out.Cmp(r.out) <= 0
}

// Overlaps reports whether r and o share at least one point.
func (r Range) Overlaps(o Range) bool {
	return r.in.Cmp(o.out) <= 0 && o.in.Cmp(r.out) <= 0
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{in: rational.MinOf(r.in, o.in), out: rational.MaxOf(r.out, o.out)}
}

// Intersect returns the overlap of r and o, and false if they do not overlap.
func (r Range) Intersect(o Range) (Range, bool) {
	if !r.Overlaps(o) {
		return Range{}, false
	}
	return Range{in: rational.MaxOf(r.in, o.in), out: rational.MinOf(r.out, o.out)}, true
}

// String formats r as "[in, out]".
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.in, r.out)
}
