package node

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/leapstack-labs/leapanim/pkg/value"
)

// DataType is the declared type of an input's values.
type DataType uint8

const (
	TypeNone DataType = iota
	TypeFloat
	TypeVec2
	TypeVec3
	TypeVec4
	TypeColor
	TypeInt
	TypeBool
	TypeText
	TypeFile
	TypeFootage
	TypeCombo
)

var dataTypeNames = [...]string{
	TypeNone:    "none",
	TypeFloat:   "float",
	TypeVec2:    "vec2",
	TypeVec3:    "vec3",
	TypeVec4:    "vec4",
	TypeColor:   "color",
	TypeInt:     "int",
	TypeBool:    "bool",
	TypeText:    "text",
	TypeFile:    "file",
	TypeFootage: "footage",
	TypeCombo:   "combo",
}

func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}
	return fmt.Sprintf("datatype(%d)", d)
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range dataTypeNames {
		if name == s {
			return DataType(d), nil
		}
	}
	return TypeNone, fmt.Errorf("unknown data type %q", s)
}

// ValueKind returns the value variant that inputs of this type hold.
func (d DataType) ValueKind() value.Kind {
	switch d {
	case TypeFloat:
		return value.KindFloat
	case TypeVec2:
		return value.KindVec2
	case TypeVec3:
		return value.KindVec3
	case TypeVec4:
		return value.KindVec4
	case TypeColor:
		return value.KindColor
	case TypeNone:
		return value.KindNone
	}
	return value.KindOther
}

// CanInterpolate reports whether keyframes of this type blend between each other.
func (d DataType) CanInterpolate() bool {
	return d.ValueKind().Interpolable()
}

// accepts reports whether v may be stored in an input of type d.
func (d DataType) accepts(v value.Value) bool {
	return v.Kind() == d.ValueKind()
}

// KeyframeType selects how a keyframe interpolates toward the next one.
type KeyframeType uint8

const (
	KeyframeLinear KeyframeType = iota
	KeyframeHold
	KeyframeBezier
)

func (k KeyframeType) String() string {
	switch k {
	case KeyframeLinear:
		return "linear"
	case KeyframeHold:
		return "hold"
	case KeyframeBezier:
		return "bezier"
	}
	return fmt.Sprintf("keyframetype(%d)", k)
}

// ParseKeyframeType is the inverse of KeyframeType.String.
func ParseKeyframeType(s string) (KeyframeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return KeyframeLinear, nil
	case "hold":
		return KeyframeHold, nil
	case "bezier":
		return KeyframeBezier, nil
	}
	return KeyframeLinear, fmt.Errorf("unknown keyframe type %q", s)
}

var defaultKeyframeType atomic.Uint32

// DefaultKeyframeType is returned by BestKeyframeTypeForTime when an input
// has no keyframes to take a type from.
func DefaultKeyframeType() KeyframeType {
	return KeyframeType(defaultKeyframeType.Load())
}

// SetDefaultKeyframeType changes the process-wide default keyframe type.
func SetDefaultKeyframeType(t KeyframeType) {
	defaultKeyframeType.Store(uint32(t))
}
