package node

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

func TestCopyValues_DeepCopy(t *testing.T) {
	src, ids := keyed(t, [2]float64{0, 0}, [2]float64{10, 100}, [2]float64{25, 40})
	require.NoError(t, src.SetKeyframeType(ids[1], KeyframeHold))
	require.NoError(t, src.SetStandardValue(value.Float(9)))

	dst := newFloatInput(t, "opacity")
	require.NoError(t, CopyValues(src, dst, CopyOptions{}))

	assert.True(t, dst.IsKeyframing())
	assert.Equal(t, value.Float(9), dst.StandardValue())
	require.Equal(t, src.KeyframeCount(), dst.KeyframeCount())
	for _, id := range src.Keyframes() {
		k, _ := src.Keyframe(id)
		assert.Equal(t, src.ValueAtTime(k.Time), dst.ValueAtTime(k.Time))
	}
	assert.Equal(t, src.ValueAtTime(r(17)), dst.ValueAtTime(r(17)))

	require.NoError(t, src.SetKeyframeValue(ids[0], value.Float(-50)))
	require.NoError(t, src.SetKeyframeTime(ids[2], r(40)))
	assert.Equal(t, value.Float(0), dst.ValueAtTime(r(0)), "no aliasing")
	assert.Equal(t, value.Float(40), dst.ValueAtTime(r(25)))
}

func TestCopyValues_ReplacesExistingKeyframes(t *testing.T) {
	src, _ := keyed(t, [2]float64{0, 1})
	dst, old := keyed(t, [2]float64{3, 3}, [2]float64{4, 4})

	require.NoError(t, CopyValues(src, dst, CopyOptions{}))
	assert.Equal(t, 1, dst.KeyframeCount())
	_, ok := dst.Keyframe(old[0])
	assert.False(t, ok, "ids from before the copy are stale")
}

func TestCopyValues_Events(t *testing.T) {
	src := newFloatInput(t, "x")
	dst := newFloatInput(t, "x")
	rec := record(dst)

	require.NoError(t, CopyValues(src, dst, CopyOptions{}))
	require.NotEmpty(t, rec.events)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, ValueChanged, last.Kind)
	assert.Equal(t, timerange.All(), last.Range)
}

func TestCopyValues_Mismatch(t *testing.T) {
	a := newFloatInput(t, "a")
	b := newFloatInput(t, "b")
	require.ErrorIs(t, CopyValues(a, b, CopyOptions{}), ErrIDMismatch)

	arr, err := NewInputArray("a", TypeFloat, value.Float(0))
	require.NoError(t, err)
	require.ErrorIs(t, CopyValues(a, arr, CopyOptions{}), ErrArrayMismatch)
}

func TestCopyValues_Arrays(t *testing.T) {
	src, err := NewInputArray("pts", TypeFloat, value.Float(0))
	require.NoError(t, err)
	require.NoError(t, src.SetArraySize(2, false))
	el, _ := src.ArrayAt(1)
	require.NoError(t, el.SetKeyframing(true))
	_, err = el.InsertKeyframe(Keyframe{Time: r(0), Value: value.Float(2)})
	require.NoError(t, err)
	_, err = el.InsertKeyframe(Keyframe{Time: r(10), Value: value.Float(4)})
	require.NoError(t, err)

	dst, err := NewInputArray("pts", TypeFloat, value.Float(0))
	require.NoError(t, err)
	require.NoError(t, dst.SetArraySize(5, false))

	require.NoError(t, CopyValues(src, dst, CopyOptions{}))
	require.Equal(t, 2, dst.ArraySize())
	got, _ := dst.ArrayAt(1)
	assert.Equal(t, value.Float(3), got.ValueAtTime(r(5)))
}

func TestCopyValues_Connections(t *testing.T) {
	up := New("up")
	out, err := up.AddOutput("out")
	require.NoError(t, err)

	src := newFloatInput(t, "x")
	require.NoError(t, ConnectEdge(out, src))

	t.Run("direct", func(t *testing.T) {
		dst := newFloatInput(t, "x")
		require.NoError(t, CopyValues(src, dst, CopyOptions{IncludeConnections: true}))
		got, ok := dst.ConnectedOutput()
		require.True(t, ok)
		assert.Same(t, out, got)
	})

	t.Run("through connector", func(t *testing.T) {
		dst := newFloatInput(t, "x")
		c := &fakeConnector{}
		require.NoError(t, CopyValues(src, dst, CopyOptions{IncludeConnections: true, LockConnections: true, Connector: c}))
		assert.Equal(t, 1, c.calls)
		assert.True(t, c.lock)
	})

	t.Run("skipped by default", func(t *testing.T) {
		dst := newFloatInput(t, "x")
		require.NoError(t, CopyValues(src, dst, CopyOptions{}))
		_, ok := dst.ConnectedOutput()
		assert.False(t, ok)
	})
}

func TestCopyValues_ReplacesConnection(t *testing.T) {
	a, b := New("a"), New("b")
	aOut, err := a.AddOutput("out")
	require.NoError(t, err)
	bOut, err := b.AddOutput("out")
	require.NoError(t, err)

	src, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	require.NoError(t, ConnectEdge(aOut, src))
	dst := newFloatInput(t, "opacity")
	require.NoError(t, dst.SetStandardValue(value.Float(7)))
	require.NoError(t, ConnectEdge(bOut, dst))
	rec := record(dst)

	require.NoError(t, CopyValues(src, dst, CopyOptions{IncludeConnections: true}))

	got, ok := dst.ConnectedOutput()
	require.True(t, ok)
	assert.Same(t, aOut, got)
	assert.Empty(t, bOut.Edges())
	assert.Equal(t, value.Float(50), dst.ValueAtTime(r(5)))
	assert.Equal(t, []EventKind{KeyframingChanged, InputDisconnected, InputConnected, ValueChanged}, rec.kinds())
	assert.Equal(t, []timerange.Range{timerange.All()}, rec.ranges())
}

func TestCopyValues_FailedConnectStillInvalidates(t *testing.T) {
	a, b := New("a"), New("b")
	aOut, err := a.AddOutput("out")
	require.NoError(t, err)
	bOut, err := b.AddOutput("out")
	require.NoError(t, err)

	src, _ := keyed(t, [2]float64{0, 3})
	require.NoError(t, ConnectEdge(aOut, src))
	dst := newFloatInput(t, "opacity")
	require.NoError(t, ConnectEdge(bOut, dst))
	rec := record(dst)

	c := &fakeConnector{err: errors.New("refused")}
	err = CopyValues(src, dst, CopyOptions{IncludeConnections: true, Connector: c})
	require.Error(t, err)

	got, ok := dst.ConnectedOutput()
	require.True(t, ok)
	assert.Same(t, bOut, got, "previous connection is restored")
	assert.Equal(t, value.Float(3), dst.ValueAtTime(r(0)))
	require.NotEmpty(t, rec.events)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, ValueChanged, last.Kind)
	assert.Equal(t, timerange.All(), last.Range)
}

func TestCopyValues_OntoItself(t *testing.T) {
	in, _ := keyed(t, [2]float64{0, 0}, [2]float64{10, 100})
	rec := record(in)

	require.NoError(t, CopyValues(in, in, CopyOptions{}))
	assert.Equal(t, 2, in.KeyframeCount())
	assert.Equal(t, []rational.Rational{r(0), r(10)}, times(t, in))
	assert.Equal(t, value.Float(50), in.ValueAtTime(r(5)))
	assert.Equal(t, []timerange.Range{timerange.All()}, rec.ranges())
}

type fakeConnector struct {
	calls int
	lock  bool
	err   error
}

func (c *fakeConnector) Connect(out *Output, in *Input, lock bool) error {
	c.calls++
	c.lock = lock
	if c.err != nil {
		return c.err
	}
	return ConnectEdge(out, in)
}

func (c *fakeConnector) Disconnect(out *Output, in *Input) error {
	return DisconnectEdge(out, in)
}
