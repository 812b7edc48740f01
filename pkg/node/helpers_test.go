package node

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

func r(n int64) rational.Rational { return rational.FromInt(n) }

func span(in, out int64) timerange.Range { return timerange.New(r(in), r(out)) }

func newFloatInput(t *testing.T, id string) *Input {
	t.Helper()
	in, err := NewInput(id, TypeFloat, value.Float(0))
	require.NoError(t, err)
	return in
}

// keyed returns a keyframing float input with linear keys at the given
// (time, value) pairs.
func keyed(t *testing.T, pairs ...[2]float64) (*Input, []KeyframeID) {
	t.Helper()
	in := newFloatInput(t, "opacity")
	require.NoError(t, in.SetKeyframing(true))
	ids := make([]KeyframeID, 0, len(pairs))
	for _, p := range pairs {
		id, err := in.InsertKeyframe(Keyframe{Time: r(int64(p[0])), Value: value.Float(p[1])})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return in, ids
}

type recorder struct {
	events []Event
}

func record(in *Input) *recorder {
	rec := &recorder{}
	in.Subscribe(func(e Event) { rec.events = append(rec.events, e) })
	return rec
}

func (rec *recorder) kinds() []EventKind {
	out := make([]EventKind, len(rec.events))
	for i, e := range rec.events {
		out[i] = e.Kind
	}
	return out
}

func (rec *recorder) ranges() []timerange.Range {
	var out []timerange.Range
	for _, e := range rec.events {
		if e.Kind == ValueChanged {
			out = append(out, e.Range)
		}
	}
	return out
}

func (rec *recorder) reset() { rec.events = nil }

func times(t *testing.T, in *Input) []rational.Rational {
	t.Helper()
	var out []rational.Rational
	for _, id := range in.Keyframes() {
		k, ok := in.Keyframe(id)
		require.True(t, ok)
		out = append(out, k.Time)
	}
	return out
}
