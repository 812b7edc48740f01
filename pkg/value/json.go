package value

import (
	"encoding/json"
	"fmt"
)

type wireValue struct {
	Kind  string    `json:"kind"`
	Comps []float64 `json:"v,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// MarshalJSON encodes numeric kinds as {"kind":..., "v":[...]}. KindOther
// payloads are written as their formatted text and do not round-trip.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.kind.String()}
	switch {
	case v.kind.Interpolable():
		w.Comps = v.Components()
	case v.kind == KindOther:
		w.Text = fmt.Sprintf("%v", v.other)
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON. A KindOther value decodes
// with its text as a string payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}
	k, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	switch k {
	case KindNone:
		*v = Value{}
	case KindOther:
		*v = Other(w.Text)
	default:
		out, err := FromComponents(k, w.Comps)
		if err != nil {
			return err
		}
		*v = out
	}
	return nil
}
