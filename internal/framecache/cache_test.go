package framecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapanim/internal/testutil"
	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/rational"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

func r(n int64) rational.Rational { return rational.FromInt(n) }

// keyedInput returns a keyframing float input with linear keys at
// 0, 10, 20 and 30 holding their own time as value.
func keyedInput(t *testing.T) (*node.Input, []node.KeyframeID) {
	t.Helper()
	in, err := node.NewInput("opacity", node.TypeFloat, value.Float(0))
	require.NoError(t, err)
	require.NoError(t, in.SetKeyframing(true))
	var ids []node.KeyframeID
	for _, tm := range []int64{0, 10, 20, 30} {
		id, err := in.InsertKeyframe(node.Keyframe{Time: r(tm), Value: value.Float(float64(tm))})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return in, ids
}

func cachedTimes(t *testing.T, c *Cache) []rational.Rational {
	t.Helper()
	samples, err := c.Samples(context.Background())
	require.NoError(t, err)
	var out []rational.Rational
	for _, s := range samples {
		out = append(out, s.Time)
	}
	return out
}

func TestCache_HitsAndMisses(t *testing.T) {
	ctx := context.Background()
	in, _ := keyedInput(t)
	c := New(in, Config{Logger: testutil.NewTestLogger(t)})
	defer c.Close()

	v, err := c.Value(ctx, r(5))
	require.NoError(t, err)
	assert.Equal(t, value.Float(5), v)

	v, err = c.Value(ctx, r(5))
	require.NoError(t, err)
	assert.Equal(t, value.Float(5), v)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
	assert.Equal(t, "opacity", c.Key())
}

func TestCache_DropsExactlyTheChangedRange(t *testing.T) {
	ctx := context.Background()
	in, ids := keyedInput(t)
	c := New(in, Config{Logger: testutil.NewTestLogger(t)})
	defer c.Close()

	for _, tm := range []int64{5, 15, 25, 35} {
		_, err := c.Value(ctx, r(tm))
		require.NoError(t, err)
	}

	// The key at 20 influences [10, 30].
	require.NoError(t, in.SetKeyframeValue(ids[2], value.Float(100)))

	assert.Equal(t, []rational.Rational{r(5), r(35)}, cachedTimes(t, c))
	assert.Equal(t, []timerange.Range{timerange.New(r(10), r(30))}, c.Dirty())
	assert.True(t, c.IsDirty(r(15)))
	assert.False(t, c.IsDirty(r(5)))
	assert.Equal(t, 2, c.Stats().Invalidated)

	// Re-evaluation sees the new key value.
	v, err := c.Value(ctx, r(15))
	require.NoError(t, err)
	assert.Equal(t, value.Float(55), v)

	c.MarkClean(timerange.All())
	assert.Empty(t, c.Dirty())
}

func TestCache_StandardValueChangeDropsEverything(t *testing.T) {
	ctx := context.Background()
	in, err := node.NewInput("gain", node.TypeFloat, value.Float(1))
	require.NoError(t, err)
	c := New(in, Config{Key: "mixer.gain"})
	defer c.Close()

	_, err = c.Value(ctx, r(1))
	require.NoError(t, err)
	_, err = c.Value(ctx, r(2))
	require.NoError(t, err)

	require.NoError(t, in.SetStandardValue(value.Float(2)))
	assert.Empty(t, cachedTimes(t, c))
	assert.Equal(t, []timerange.Range{timerange.All()}, c.Dirty())

	v, err := c.Value(ctx, r(1))
	require.NoError(t, err)
	assert.Equal(t, value.Float(2), v)
}

func TestCache_InfiniteTimeIsNotStored(t *testing.T) {
	in, _ := keyedInput(t)
	c := New(in, Config{})
	defer c.Close()

	v, err := c.Value(context.Background(), rational.Max)
	require.NoError(t, err)
	assert.Equal(t, value.Float(30), v)
	assert.Empty(t, cachedTimes(t, c))
}

func TestCache_CloseStopsListening(t *testing.T) {
	in, ids := keyedInput(t)
	c := New(in, Config{})
	c.Close()

	require.NoError(t, in.SetKeyframeValue(ids[1], value.Float(-1)))
	assert.Empty(t, c.Dirty())
}
