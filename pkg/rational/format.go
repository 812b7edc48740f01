package rational

import (
	"fmt"
	"strconv"
	"strings"
)

// String formats r as "num/den", or just "num" when the denominator is 1.
// The sentinels format as "-inf" and "inf".
func (r Rational) String() string {
	switch r.inf {
	case -1:
		return "-inf"
	case 1:
		return "inf"
	}
	if r.dm1 == 0 {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.Den(), 10)
}

// Parse reads a rational from one of the forms "7", "-3/2", "1.25", "inf",
// "+inf" or "-inf". Decimals are converted exactly.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return Zero, fmt.Errorf("rational: empty string")
	case "inf", "+inf", "max":
		return Max, nil
	case "-inf", "min":
		return Min, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Zero, fmt.Errorf("rational: invalid numerator in %q: %w", s, err)
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Zero, fmt.Errorf("rational: invalid denominator in %q: %w", s, err)
		}
		if d == 0 {
			return Zero, fmt.Errorf("rational: zero denominator in %q", s)
		}
		return New(n, d), nil
	}

	if whole, frac, ok := strings.Cut(s, "."); ok {
		if len(frac) == 0 || len(frac) > 18 {
			return Zero, fmt.Errorf("rational: unsupported decimal %q", s)
		}
		neg := strings.HasPrefix(whole, "-")
		digits := strings.TrimLeft(whole, "+-") + frac
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Zero, fmt.Errorf("rational: invalid decimal %q: %w", s, err)
		}
		den := int64(1)
		for range frac {
			den *= 10
		}
		if neg {
			n = -n
		}
		return New(n, den), nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("rational: invalid value %q: %w", s, err)
	}
	return FromInt(n), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rational) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
