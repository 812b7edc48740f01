// Package rational provides an exact fraction type used for all timeline times.
//
// Values are always kept in lowest terms with a positive denominator, so two
// equal times compare equal with == and can be used as map keys. Two sentinel
// values, Min and Max, stand for negative and positive infinity and are used
// for open-ended time ranges.
package rational

import (
	"fmt"
	"math"
	"math/big"
)

// Rational is an exact time value. The zero value is 0.
type Rational struct {
	num int64
	// dm1 stores the denominator minus one so that the zero value reads as 0/1.
	dm1 int64
	// inf is -1 or +1 for the sentinels, 0 for finite values.
	inf int8
}

var (
	// Zero is the rational 0.
	Zero = Rational{}
	// Min sorts before every finite value.
	Min = Rational{inf: -1}
	// Max sorts after every finite value.
	Max = Rational{inf: 1}
)

// New returns num/den reduced to lowest terms. It panics if den is zero.
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return normalize(num, den)
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{num: n}
}

func normalize(num, den int64) Rational {
	if num == 0 {
		return Zero
	}
	if num == math.MinInt64 || den == math.MinInt64 {
		return fromBig(new(big.Rat).SetFrac(big.NewInt(num), big.NewInt(den)))
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	return Rational{num: num / g, dm1: den/g - 1}
}

// Num returns the numerator. It is 0 for the sentinels.
func (r Rational) Num() int64 { return r.num }

// Den returns the denominator, always positive.
func (r Rational) Den() int64 { return r.dm1 + 1 }

// IsInf reports whether r is Min or Max.
func (r Rational) IsInf() bool { return r.inf != 0 }

// Sign returns -1, 0 or +1.
func (r Rational) Sign() int {
	switch {
	case r.inf != 0:
		return int(r.inf)
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	}
	return 0
}

// Cmp returns -1, 0 or +1 depending on whether r is less than, equal to, or
// greater than s.
func (r Rational) Cmp(s Rational) int {
	if r.inf != 0 || s.inf != 0 {
		return cmpInt(int(r.inf), int(s.inf))
	}
	if r.dm1 == s.dm1 {
		return cmpInt64(r.num, s.num)
	}
	left, lok := mulOK(r.num, s.Den())
	right, rok := mulOK(s.num, r.Den())
	if lok && rok {
		return cmpInt64(left, right)
	}
	return r.big().Cmp(s.big())
}

// Less reports whether r < s.
func (r Rational) Less(s Rational) bool { return r.Cmp(s) < 0 }

// Equal reports whether r == s.
func (r Rational) Equal(s Rational) bool { return r == s }

// Neg returns -r. The negation of Min is Max and vice versa.
func (r Rational) Neg() Rational {
	if r.inf != 0 {
		return Rational{inf: -r.inf}
	}
	if r.num == math.MinInt64 {
		return fromBig(new(big.Rat).Neg(r.big()))
	}
	return Rational{num: -r.num, dm1: r.dm1}
}

// Abs returns |r|.
func (r Rational) Abs() Rational {
	if r.Sign() < 0 {
		return r.Neg()
	}
	return r
}

// Add returns r + s. Adding opposite infinities yields Zero.
func (r Rational) Add(s Rational) Rational {
	switch {
	case r.inf != 0 && s.inf != 0:
		if r.inf == s.inf {
			return r
		}
		return Zero
	case r.inf != 0:
		return r
	case s.inf != 0:
		return s
	}
	if r.dm1 == s.dm1 {
		if n, ok := addOK(r.num, s.num); ok {
			return normalize(n, r.Den())
		}
	} else {
		a, aok := mulOK(r.num, s.Den())
		b, bok := mulOK(s.num, r.Den())
		d, dok := mulOK(r.Den(), s.Den())
		if aok && bok && dok {
			if n, ok := addOK(a, b); ok {
				return normalize(n, d)
			}
		}
	}
	return fromBig(new(big.Rat).Add(r.big(), s.big()))
}

// Sub returns r - s, the duration between two times. Subtracting an
// infinity from itself yields Zero.
func (r Rational) Sub(s Rational) Rational {
	return r.Add(s.Neg())
}

// Mul returns r * s. Multiplying an infinity by zero yields Zero.
func (r Rational) Mul(s Rational) Rational {
	if r.inf != 0 || s.inf != 0 {
		sign := r.Sign() * s.Sign()
		if sign == 0 {
			return Zero
		}
		return Rational{inf: int8(sign)}
	}
	n, nok := mulOK(r.num, s.num)
	d, dok := mulOK(r.Den(), s.Den())
	if nok && dok {
		return normalize(n, d)
	}
	return fromBig(new(big.Rat).Mul(r.big(), s.big()))
}

// Div returns r / s. It panics if s is zero.
func (r Rational) Div(s Rational) Rational {
	if s.Sign() == 0 {
		panic("rational: division by zero")
	}
	if s.inf != 0 {
		if r.inf != 0 {
			return Rational{inf: int8(r.Sign() * s.Sign())}
		}
		return Zero
	}
	if s.num == math.MinInt64 {
		return fromBig(new(big.Rat).Quo(r.big(), s.big()))
	}
	inv := Rational{num: s.Den(), dm1: abs64(s.num) - 1}
	if s.num < 0 {
		inv.num = -inv.num
	}
	return r.Mul(inv)
}

// Float64 returns the nearest float64. The sentinels map to ±Inf.
func (r Rational) Float64() float64 {
	if r.inf != 0 {
		return math.Inf(int(r.inf))
	}
	if r.dm1 == 0 {
		return float64(r.num)
	}
	f, _ := r.big().Float64()
	return f
}

// MinOf returns the smaller of a and b.
func MinOf(a, b Rational) Rational {
	if b.Less(a) {
		return b
	}
	return a
}

// MaxOf returns the larger of a and b.
func MaxOf(a, b Rational) Rational {
	if a.Less(b) {
		return b
	}
	return a
}

func (r Rational) big() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(r.num), big.NewInt(r.Den()))
}

func fromBig(b *big.Rat) Rational {
	if !b.Num().IsInt64() || !b.Denom().IsInt64() {
		panic(fmt.Sprintf("rational: %s overflows int64", b.String()))
	}
	if b.Sign() == 0 {
		return Zero
	}
	return Rational{num: b.Num().Int64(), dm1: b.Denom().Int64() - 1}
}

func mulOK(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, false
	}
	return c, true
}

func addOK(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
