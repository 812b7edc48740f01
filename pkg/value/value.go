// Package value defines the closed set of values a parameter can hold and
// how interpolable values blend between keyframes.
package value

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindNone is the zero Value.
	KindNone Kind = iota
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	// KindColor is RGBA, interpolated component-wise like KindVec4.
	KindColor
	// KindOther wraps an opaque, non-interpolable payload.
	KindOther
)

var kindNames = [...]string{
	KindNone:  "none",
	KindFloat: "float",
	KindVec2:  "vec2",
	KindVec3:  "vec3",
	KindVec4:  "vec4",
	KindColor: "color",
	KindOther: "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("unknown value kind %q", s)
}

// Interpolable reports whether values of this kind can be blended.
func (k Kind) Interpolable() bool {
	switch k {
	case KindFloat, KindVec2, KindVec3, KindVec4, KindColor:
		return true
	}
	return false
}

// Dims returns the number of numeric components a kind carries.
func (k Kind) Dims() int {
	switch k {
	case KindFloat:
		return 1
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4, KindColor:
		return 4
	}
	return 0
}

// Value is an immutable tagged variant. The zero Value has KindNone.
type Value struct {
	kind  Kind
	c     [4]float64
	other any
}

// Float returns a KindFloat value.
func Float(f float64) Value { return Value{kind: KindFloat, c: [4]float64{f}} }

// Vec2 returns a KindVec2 value.
func Vec2(x, y float64) Value { return Value{kind: KindVec2, c: [4]float64{x, y}} }

// Vec3 returns a KindVec3 value.
func Vec3(x, y, z float64) Value { return Value{kind: KindVec3, c: [4]float64{x, y, z}} }

// Vec4 returns a KindVec4 value.
func Vec4(x, y, z, w float64) Value { return Value{kind: KindVec4, c: [4]float64{x, y, z, w}} }

// Color returns a KindColor value.
func Color(r, g, b, a float64) Value { return Value{kind: KindColor, c: [4]float64{r, g, b, a}} }

// Other wraps an opaque payload such as text, a file path or a footage handle.
func Other(v any) Value { return Value{kind: KindOther, other: v} }

// FromComponents builds a numeric value of kind k. It fails when k is not
// interpolable or the component count is wrong.
func FromComponents(k Kind, comps []float64) (Value, error) {
	if !k.Interpolable() {
		return Value{}, fmt.Errorf("kind %s has no components", k)
	}
	if len(comps) != k.Dims() {
		return Value{}, fmt.Errorf("kind %s needs %d components, got %d", k, k.Dims(), len(comps))
	}
	v := Value{kind: k}
	copy(v.c[:], comps)
	return v, nil
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the zero Value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Float returns the first component. It is 0 for non-numeric kinds.
func (v Value) Float() float64 { return v.c[0] }

// Components returns a copy of the numeric components.
func (v Value) Components() []float64 {
	return append([]float64(nil), v.c[:v.kind.Dims()]...)
}

// Component returns the i-th component, or 0 if out of range.
func (v Value) Component(i int) float64 {
	if i < 0 || i >= v.kind.Dims() {
		return 0
	}
	return v.c[i]
}

// Payload returns the opaque payload of a KindOther value.
func (v Value) Payload() any { return v.other }

// Equal reports whether two values hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindOther {
		return reflect.DeepEqual(v.other, o.other)
	}
	return v.c == o.c
}

// Offset adds the components of d to v. A KindNone offset leaves v unchanged.
func (v Value) Offset(d Value) Value {
	if d.kind == KindNone || !v.kind.Interpolable() {
		return v
	}
	out := v
	for i := range v.kind.Dims() {
		out.c[i] += d.c[i]
	}
	return out
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindOther:
		return fmt.Sprintf("%v", v.other)
	case KindFloat:
		return strconv.FormatFloat(v.c[0], 'g', -1, 64)
	}
	parts := make([]string, v.kind.Dims())
	for i := range parts {
		parts[i] = strconv.FormatFloat(v.c[i], 'g', -1, 64)
	}
	return v.kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Lerp blends a toward b by fraction t. Values of different or
// non-interpolable kinds return a unchanged.
func Lerp(a, b Value, t float64) Value {
	if a.kind != b.kind {
		return a
	}
	switch a.kind {
	case KindFloat, KindVec2, KindVec3, KindVec4, KindColor:
		out := a
		for i := range a.kind.Dims() {
			out.c[i] = lerp(a.c[i], b.c[i], t)
		}
		return out
	case KindNone, KindOther:
		return a
	}
	return a
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
