package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

func TestInsertKeyframe_KeepsOrder(t *testing.T) {
	in := newFloatInput(t, "opacity")

	for i, tm := range []int64{5, -2, 12, 0, 7, 30, 6} {
		_, err := in.InsertKeyframe(Keyframe{Time: r(tm), Value: value.Float(float64(tm))})
		require.NoError(t, err)
		assert.Equal(t, i+1, in.KeyframeCount())

		got := times(t, in)
		for j := 1; j < len(got); j++ {
			assert.True(t, got[j-1].Less(got[j]), "keys out of order: %v", got)
		}
	}
}

func TestInsertKeyframe_Events(t *testing.T) {
	in, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	rec := record(in)

	id, err := in.InsertKeyframe(Keyframe{Time: r(5), Value: value.Float(20)})
	require.NoError(t, err)

	assert.Equal(t, []EventKind{KeyframeAdded, ValueChanged}, rec.kinds())
	assert.Equal(t, id, rec.events[0].Keyframe)
	assert.Equal(t, r(5), rec.events[0].Key.Time)
	assert.Same(t, in, rec.events[0].Input)
	assert.Equal(t, []timerange.Range{span(0, 10)}, rec.ranges())
}

func TestInsertKeyframe_Ranges(t *testing.T) {
	t.Run("first keyframe invalidates everything", func(t *testing.T) {
		in := newFloatInput(t, "x")
		rec := record(in)
		_, err := in.InsertKeyframe(Keyframe{Time: r(3), Value: value.Float(1)})
		require.NoError(t, err)
		assert.Equal(t, []timerange.Range{timerange.All()}, rec.ranges())
	})

	t.Run("appending opens the upper bound", func(t *testing.T) {
		in, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
		rec := record(in)
		_, err := in.InsertKeyframe(Keyframe{Time: r(20), Value: value.Float(1)})
		require.NoError(t, err)
		assert.Equal(t, []timerange.Range{timerange.New(r(10), rational.Max)}, rec.ranges())
	})

	t.Run("hold before the new keyframe tightens the lower bound", func(t *testing.T) {
		in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
		require.NoError(t, in.SetKeyframeType(ids[0], KeyframeHold))
		rec := record(in)
		_, err := in.InsertKeyframe(Keyframe{Time: r(5), Value: value.Float(1)})
		require.NoError(t, err)
		assert.Equal(t, []timerange.Range{span(5, 10)}, rec.ranges())
	})
}

func TestInsertKeyframe_Preconditions(t *testing.T) {
	t.Run("duplicate time", func(t *testing.T) {
		in, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
		rec := record(in)
		_, err := in.InsertKeyframe(Keyframe{Time: r(10), Value: value.Float(3)})
		require.ErrorIs(t, err, ErrDuplicateKeyframeTime)
		assert.Equal(t, 2, in.KeyframeCount())
		assert.Empty(t, rec.events)
	})

	t.Run("wrong value type", func(t *testing.T) {
		in := newFloatInput(t, "x")
		_, err := in.InsertKeyframe(Keyframe{Time: r(0), Value: value.Vec2(1, 2)})
		require.ErrorIs(t, err, ErrValueType)
		assert.Equal(t, 0, in.KeyframeCount())
	})

	t.Run("wrong handle type", func(t *testing.T) {
		in := newFloatInput(t, "x")
		_, err := in.InsertKeyframe(Keyframe{Time: r(0), Value: value.Float(1), Out: Handle{Value: value.Vec2(1, 1)}})
		require.ErrorIs(t, err, ErrValueType)
	})

	t.Run("not keyframable", func(t *testing.T) {
		in := newFloatInput(t, "x")
		in.SetKeyframable(false)
		_, err := in.InsertKeyframe(Keyframe{Time: r(0), Value: value.Float(1)})
		require.NoError(t, err, "an input without keyframes accepts one")
		_, err = in.InsertKeyframe(Keyframe{Time: r(1), Value: value.Float(1)})
		require.ErrorIs(t, err, ErrNotKeyframable)
	})
}

func TestRemoveKeyframe(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 0})
	rec := record(in)

	require.NoError(t, in.RemoveKeyframe(ids[1]))

	assert.Equal(t, []EventKind{KeyframeRemoved, ValueChanged}, rec.kinds())
	assert.Equal(t, ids[1], rec.events[0].Keyframe)
	assert.Equal(t, r(10), rec.events[0].Key.Time)
	assert.Equal(t, []timerange.Range{span(0, 20)}, rec.ranges())
	assert.Equal(t, []rational.Rational{r(0), r(20)}, times(t, in))

	_, ok := in.Keyframe(ids[1])
	assert.False(t, ok, "removed ids go stale")
	require.ErrorIs(t, in.RemoveKeyframe(ids[1]), ErrUnknownKeyframe)
}

func TestRemoveKeyframe_Preconditions(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})

	require.NoError(t, in.SetKeyframing(false))
	require.ErrorIs(t, in.RemoveKeyframe(ids[0]), ErrNotKeyframing)

	require.NoError(t, in.SetKeyframing(true))
	require.NoError(t, in.RemoveKeyframe(ids[0]))
	require.ErrorIs(t, in.RemoveKeyframe(ids[1]), ErrLastKeyframe)
	assert.Equal(t, 1, in.KeyframeCount())
}

func TestRemoveKeyframe_ReusesSlotWithNewGeneration(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	require.NoError(t, in.RemoveKeyframe(ids[0]))

	id, err := in.InsertKeyframe(Keyframe{Time: r(3), Value: value.Float(3)})
	require.NoError(t, err)
	assert.NotEqual(t, ids[0], id)

	_, ok := in.Keyframe(ids[0])
	assert.False(t, ok)
	k, ok := in.Keyframe(id)
	require.True(t, ok)
	assert.Equal(t, r(3), k.Time)
}

func TestClearKeyframes(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	require.ErrorIs(t, in.ClearKeyframes(), ErrKeyframing)

	require.NoError(t, in.SetKeyframing(false))
	rec := record(in)
	require.NoError(t, in.ClearKeyframes())

	assert.Equal(t, []EventKind{KeyframeRemoved, KeyframeRemoved}, rec.kinds())
	assert.Equal(t, ids[0], rec.events[0].Keyframe)
	assert.Equal(t, 0, in.KeyframeCount())
}

func TestSetKeyframeTime_Resorts(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	rec := record(in)

	require.NoError(t, in.SetKeyframeTime(ids[0], r(15)))

	assert.Equal(t, []rational.Rational{r(10), r(15), r(20)}, times(t, in))
	assert.Equal(t, []KeyframeID{ids[1], ids[0], ids[2]}, in.Keyframes())
	assert.Equal(t, []timerange.Range{
		span(10, 20),
		timerange.New(rational.Min, r(10)),
	}, rec.ranges(), "new neighborhood first, then the original one")
}

func TestSetKeyframeTime_WithoutResort(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	rec := record(in)

	require.NoError(t, in.SetKeyframeTime(ids[1], r(12)))

	assert.Equal(t, []KeyframeID{ids[0], ids[1], ids[2]}, in.Keyframes())
	assert.Equal(t, []timerange.Range{span(0, 20)}, rec.ranges())
	assert.Equal(t, value.Float(100), in.ValueAtTime(r(12)))
}

func TestSetKeyframeTime_MoveToEndWithHold(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	require.NoError(t, in.SetKeyframeType(ids[2], KeyframeHold))
	rec := record(in)

	require.NoError(t, in.SetKeyframeTime(ids[0], r(30)))

	assert.Equal(t, []timerange.Range{
		timerange.New(r(30), rational.Max),
		timerange.New(rational.Min, r(10)),
	}, rec.ranges())
}

func TestSetKeyframeTime_Preconditions(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	rec := record(in)

	require.ErrorIs(t, in.SetKeyframeTime(ids[0], r(10)), ErrDuplicateKeyframeTime)
	require.NoError(t, in.SetKeyframeTime(ids[0], r(0)), "same time is a no-op")
	require.ErrorIs(t, in.SetKeyframeTime(KeyframeID{}, r(3)), ErrUnknownKeyframe)
	assert.Empty(t, rec.events)
}

func TestSetKeyframeValue(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	rec := record(in)

	require.NoError(t, in.SetKeyframeValue(ids[1], value.Float(80)))
	assert.Equal(t, []timerange.Range{span(0, 20)}, rec.ranges())
	assert.Equal(t, value.Float(40), in.ValueAtTime(r(5)))

	require.ErrorIs(t, in.SetKeyframeValue(ids[1], value.Other("x")), ErrValueType)

	require.NoError(t, in.SetKeyframeType(ids[0], KeyframeHold))
	rec.reset()
	require.NoError(t, in.SetKeyframeValue(ids[1], value.Float(10)))
	assert.Equal(t, []timerange.Range{span(10, 20)}, rec.ranges(), "hold segment before the key is untouched")
}

func TestSetKeyframeType(t *testing.T) {
	single, sid := keyed(t, [2]float64{0, 0})
	rec := record(single)
	require.NoError(t, single.SetKeyframeType(sid[0], KeyframeHold))
	assert.Empty(t, rec.events)
	k, _ := single.Keyframe(sid[0])
	assert.Equal(t, KeyframeHold, k.Type)

	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	rec = record(in)
	require.NoError(t, in.SetKeyframeType(ids[0], KeyframeBezier))
	assert.Equal(t, []timerange.Range{timerange.New(rational.Min, r(10))}, rec.ranges())
}

func TestSetKeyframeHandles(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})
	rec := record(in)

	require.NoError(t, in.SetKeyframeHandles(ids[1], Handle{Time: -2}, Handle{Time: 2, Value: value.Float(5)}))
	assert.Equal(t, []timerange.Range{span(0, 20)}, rec.ranges())

	k, _ := in.Keyframe(ids[1])
	assert.Equal(t, 2.0, k.Out.Time)
	assert.Equal(t, value.Float(5), k.Out.Value)

	require.ErrorIs(t, in.SetKeyframeHandles(ids[1], Handle{Value: value.Vec3(0, 0, 0)}, Handle{}), ErrValueType)
}

func TestRangeAroundIndex(t *testing.T) {
	in, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})

	assert.Equal(t, timerange.New(rational.Min, r(10)), in.RangeAroundIndex(0))
	assert.Equal(t, span(0, 20), in.RangeAroundIndex(1))
	assert.Equal(t, timerange.New(r(10), rational.Max), in.RangeAroundIndex(2))

	single, _ := keyed(t, [2]float64{5, 0})
	assert.True(t, single.RangeAroundIndex(0).IsAll())
}

func TestKeyframeAtTime(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})

	got, ok := in.KeyframeAtTime(r(10))
	require.True(t, ok)
	assert.Equal(t, ids[1], got)
	assert.True(t, in.HasKeyframeAtTime(r(0)))

	_, ok = in.KeyframeAtTime(r(5))
	assert.False(t, ok)

	require.NoError(t, in.SetKeyframing(false))
	_, ok = in.KeyframeAtTime(r(10))
	assert.False(t, ok, "standard value in use")
	assert.False(t, in.HasKeyframeAtTime(r(10)))
}

func TestClosestKeyframeToTime(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{20, 50})

	tests := []struct {
		name string
		at   rational.Rational
		want KeyframeID
	}{
		{"before first clamps", r(-50), ids[0]},
		{"after last clamps", r(99), ids[2]},
		{"nearer previous", r(3), ids[0]},
		{"nearer next", r(7), ids[1]},
		{"tie goes to earlier", r(15), ids[1]},
		{"exact", r(20), ids[2]},
		{"fraction", rational.New(29, 2), ids[1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := in.ClosestKeyframeToTime(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	empty := newFloatInput(t, "x")
	_, ok := empty.ClosestKeyframeToTime(r(0))
	assert.False(t, ok)
}

func TestBestKeyframeTypeForTime(t *testing.T) {
	in, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	require.NoError(t, in.SetKeyframeType(ids[1], KeyframeBezier))

	assert.Equal(t, KeyframeBezier, in.BestKeyframeTypeForTime(r(8)))
	assert.Equal(t, KeyframeLinear, in.BestKeyframeTypeForTime(r(2)))

	empty := newFloatInput(t, "x")
	assert.Equal(t, DefaultKeyframeType(), empty.BestKeyframeTypeForTime(r(0)))

	SetDefaultKeyframeType(KeyframeHold)
	t.Cleanup(func() { SetDefaultKeyframeType(KeyframeLinear) })
	assert.Equal(t, KeyframeHold, empty.BestKeyframeTypeForTime(r(0)))
}
