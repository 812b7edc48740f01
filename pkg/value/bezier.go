package value

const (
	bezierTolerance = 1e-12
	bezierMaxSteps  = 100
)

// CubicAt evaluates one coordinate of a cubic Bezier curve at parameter t.
func CubicAt(p0, p1, p2, p3, t float64) float64 {
	mt := 1 - t
	return mt*mt*mt*p0 + 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t*p3
}

// QuadraticAt evaluates one coordinate of a quadratic Bezier curve at parameter t.
func QuadraticAt(p0, p1, p2, t float64) float64 {
	mt := 1 - t
	return mt*mt*p0 + 2*mt*t*p1 + t*t*p2
}

// CubicTAtX returns the parameter t in [0, 1] at which the curve's x
// coordinate equals x. The x control points are expected to be monotone.
func CubicTAtX(x, x0, x1, x2, x3 float64) float64 {
	return solve(x, x0, x3, func(t float64) float64 { return CubicAt(x0, x1, x2, x3, t) })
}

// QuadraticTAtX is CubicTAtX for quadratic curves.
func QuadraticTAtX(x, x0, x1, x2 float64) float64 {
	return solve(x, x0, x2, func(t float64) float64 { return QuadraticAt(x0, x1, x2, t) })
}

// solve bisects f over [0, 1] for f(t) == x, assuming f(0) == lo and f(1) == hi.
func solve(x, lo, hi float64, f func(float64) float64) float64 {
	if lo == hi {
		return 0
	}
	increasing := hi > lo
	switch {
	case increasing && x <= lo, !increasing && x >= lo:
		return 0
	case increasing && x >= hi, !increasing && x <= hi:
		return 1
	}

	a, b := 0.0, 1.0
	t := 0.5
	for range bezierMaxSteps {
		t = (a + b) / 2
		got := f(t)
		diff := got - x
		if diff < bezierTolerance && diff > -bezierTolerance {
			return t
		}
		if (diff < 0) == increasing {
			a = t
		} else {
			b = t
		}
	}
	return t
}

// CubicBlend evaluates a cubic Bezier between a and b component-wise, with
// c1 and c2 as the absolute control values. Mismatched kinds return a.
func CubicBlend(a, c1, c2, b Value, t float64) Value {
	if !sameNumericKind(a, c1, c2, b) {
		return a
	}
	out := a
	for i := range a.kind.Dims() {
		out.c[i] = CubicAt(a.c[i], c1.c[i], c2.c[i], b.c[i], t)
	}
	return out
}

// QuadraticBlend evaluates a quadratic Bezier between a and b component-wise.
func QuadraticBlend(a, c, b Value, t float64) Value {
	if !sameNumericKind(a, c, b) {
		return a
	}
	out := a
	for i := range a.kind.Dims() {
		out.c[i] = QuadraticAt(a.c[i], c.c[i], b.c[i], t)
	}
	return out
}

func sameNumericKind(vs ...Value) bool {
	k := vs[0].kind
	if !k.Interpolable() {
		return false
	}
	for _, v := range vs[1:] {
		if v.kind != k {
			return false
		}
	}
	return true
}
