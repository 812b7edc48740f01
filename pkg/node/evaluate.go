package node

import (
	"sort"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// ValueAtTime evaluates the input at t. Times before the first or after
// the last keyframe take that keyframe's value. Between keyframes the
// earlier keyframe's type decides: Hold keeps its value, Linear blends
// linearly, and Bezier on either side blends along a curve shaped by the
// keyframes' handles.
func (in *Input) ValueAtTime(t rational.Rational) value.Value {
	if in.IsUsingStandardValue() {
		return in.standard
	}

	last := len(in.keys) - 1
	if t.Cmp(in.timeAt(0)) <= 0 {
		return in.keyAt(0).Value
	}
	if t.Cmp(in.timeAt(last)) >= 0 {
		return in.keyAt(last).Value
	}

	// First keyframe strictly after t; t lies inside [before, after).
	i := sort.Search(len(in.keys), func(i int) bool { return t.Less(in.timeAt(i)) })
	if i == 0 || i > last {
		return in.standard
	}
	before, after := in.keyAt(i-1), in.keyAt(i)

	if t == before.Time || !in.dataType.CanInterpolate() || before.Type == KeyframeHold {
		return before.Value
	}
	return interpolate(before, after, t)
}

func interpolate(before, after *Keyframe, t rational.Rational) value.Value {
	span := after.Time.Sub(before.Time)
	elapsed := t.Sub(before.Time)

	switch {
	case before.Type == KeyframeBezier && after.Type == KeyframeBezier:
		d := span.Float64()
		x1 := clamp(before.Out.Time, 0, d)
		x2 := clamp(d+after.In.Time, 0, d)
		u := value.CubicTAtX(elapsed.Float64(), 0, x1, x2, d)
		return value.CubicBlend(
			before.Value,
			before.Value.Offset(before.Out.Value),
			after.Value.Offset(after.In.Value),
			after.Value,
			u,
		)
	case before.Type == KeyframeBezier:
		d := span.Float64()
		x1 := clamp(before.Out.Time, 0, d)
		u := value.QuadraticTAtX(elapsed.Float64(), 0, x1, d)
		return value.QuadraticBlend(before.Value, before.Value.Offset(before.Out.Value), after.Value, u)
	case after.Type == KeyframeBezier:
		d := span.Float64()
		x1 := clamp(d+after.In.Time, 0, d)
		u := value.QuadraticTAtX(elapsed.Float64(), 0, x1, d)
		return value.QuadraticBlend(before.Value, after.Value.Offset(after.In.Value), after.Value, u)
	}

	return value.Lerp(before.Value, after.Value, elapsed.Div(span).Float64())
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}
