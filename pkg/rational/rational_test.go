package rational

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Normalizes(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		wantNum  int64
		wantDen  int64
	}{
		{"already reduced", 3, 2, 3, 2},
		{"common factor", 10, 4, 5, 2},
		{"negative denominator", 1, -3, -1, 3},
		{"both negative", -6, -9, 2, 3},
		{"zero numerator", 0, 7, 0, 1},
		{"integer", 8, 4, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.num, tt.den)
			assert.Equal(t, tt.wantNum, r.Num())
			assert.Equal(t, tt.wantDen, r.Den())
		})
	}
}

func TestNew_ZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { New(1, 0) })
}

func TestZeroValueIsZero(t *testing.T) {
	var r Rational
	assert.Equal(t, Zero, r)
	assert.Equal(t, New(0, 5), r)
	assert.Equal(t, int64(1), r.Den())
}

func TestEqualValuesAreComparable(t *testing.T) {
	assert.True(t, New(2, 4) == New(1, 2))

	m := map[Rational]string{New(1, 2): "half"}
	assert.Equal(t, "half", m[New(3, 6)])
}

func TestCmp(t *testing.T) {
	half := New(1, 2)
	third := New(1, 3)

	assert.Equal(t, 1, half.Cmp(third))
	assert.Equal(t, -1, third.Cmp(half))
	assert.Equal(t, 0, half.Cmp(New(2, 4)))

	assert.True(t, Min.Less(FromInt(math.MinInt64)))
	assert.True(t, FromInt(math.MaxInt64).Less(Max))
	assert.True(t, Min.Less(Max))
	assert.Equal(t, 0, Max.Cmp(Max))
}

func TestCmp_LargeValuesFallBackToExact(t *testing.T) {
	a := New(math.MaxInt64-1, math.MaxInt64)
	b := New(math.MaxInt64-2, math.MaxInt64-1)
	assert.Equal(t, 1, a.Cmp(b))
}

func TestArithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(1, 3)

	assert.Equal(t, New(5, 6), a.Add(b))
	assert.Equal(t, New(1, 6), a.Sub(b))
	assert.Equal(t, New(1, 6), a.Mul(b))
	assert.Equal(t, New(3, 2), a.Div(b))
	assert.Equal(t, New(-1, 2), a.Neg())
	assert.Equal(t, a, a.Neg().Abs())
}

func TestArithmetic_Infinity(t *testing.T) {
	ten := FromInt(10)

	assert.Equal(t, Max, Max.Sub(ten))
	assert.Equal(t, Min, ten.Sub(Max))
	assert.Equal(t, Zero, Max.Sub(Max))
	assert.Equal(t, Max, Max.Add(Max))
	assert.Equal(t, Min, Max.Neg())
	assert.Equal(t, Zero, ten.Div(Max))
	assert.Equal(t, Min, Max.Mul(FromInt(-2)))
}

func TestDiv_MinInt64Divisor(t *testing.T) {
	minInt := FromInt(math.MinInt64)

	assert.Equal(t, FromInt(1), minInt.Div(minInt))
	assert.Equal(t, New(-1, 1<<62), FromInt(2).Div(minInt))
	assert.Equal(t, 1, FromInt(-4).Div(minInt).Sign())
}

func TestDivByZeroPanics(t *testing.T) {
	assert.Panics(t, func() { FromInt(1).Div(Zero) })
}

func TestFloat64(t *testing.T) {
	assert.InDelta(t, 0.5, New(1, 2).Float64(), 1e-12)
	assert.Equal(t, 3.0, FromInt(3).Float64())
	assert.True(t, math.IsInf(Max.Float64(), 1))
	assert.True(t, math.IsInf(Min.Float64(), -1))
}

func TestMinOfMaxOf(t *testing.T) {
	assert.Equal(t, FromInt(1), MinOf(FromInt(1), FromInt(2)))
	assert.Equal(t, FromInt(2), MaxOf(FromInt(1), FromInt(2)))
	assert.Equal(t, Min, MinOf(Min, FromInt(0)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Rational
		wantErr bool
	}{
		{in: "7", want: FromInt(7)},
		{in: "-3/2", want: New(-3, 2)},
		{in: " 6 / 4 ", want: New(3, 2)},
		{in: "1.25", want: New(5, 4)},
		{in: "-0.5", want: New(-1, 2)},
		{in: "inf", want: Max},
		{in: "-inf", want: Min},
		{in: "", wantErr: true},
		{in: "1/0", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, r := range []Rational{Zero, FromInt(-4), New(7, 3), Min, Max} {
		t.Run(r.String(), func(t *testing.T) {
			text, err := r.MarshalText()
			require.NoError(t, err)

			var back Rational
			require.NoError(t, back.UnmarshalText(text))
			assert.Equal(t, r, back)
		})
	}
}
