package sheet

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

// decodeValue reads n as a value of data type dt. Numeric kinds are a
// number or a list of numbers; int, bool and combo keep their YAML scalar
// type; text, file and footage are strings.
func decodeValue(dt node.DataType, n *yaml.Node) (value.Value, error) {
	kind := dt.ValueKind()
	switch kind {
	case value.KindNone:
		return value.Value{}, nil
	case value.KindFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %s value: %w", n.Line, dt, err)
		}
		return value.Float(f), nil
	case value.KindOther:
		return decodeOther(dt, n)
	}

	var comps []float64
	if err := n.Decode(&comps); err != nil {
		return value.Value{}, fmt.Errorf("line %d: %s value: %w", n.Line, dt, err)
	}
	v, err := value.FromComponents(kind, comps)
	if err != nil {
		return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}

func decodeOther(dt node.DataType, n *yaml.Node) (value.Value, error) {
	var (
		payload any
		err     error
	)
	switch dt {
	case node.TypeInt, node.TypeCombo:
		var i int
		err = n.Decode(&i)
		payload = i
	case node.TypeBool:
		var b bool
		err = n.Decode(&b)
		payload = b
	default:
		var s string
		err = n.Decode(&s)
		payload = s
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("line %d: %s value: %w", n.Line, dt, err)
	}
	return value.Other(payload), nil
}

// zeroValue is the standard value of an input that declares none.
func zeroValue(dt node.DataType) value.Value {
	switch dt {
	case node.TypeInt, node.TypeCombo:
		return value.Other(0)
	case node.TypeBool:
		return value.Other(false)
	case node.TypeText, node.TypeFile, node.TypeFootage:
		return value.Other("")
	}
	v, err := value.FromComponents(dt.ValueKind(), make([]float64, dt.ValueKind().Dims()))
	if err != nil {
		return value.Value{}
	}
	return v
}

func isSet(n *yaml.Node) bool { return n.Kind != 0 }
