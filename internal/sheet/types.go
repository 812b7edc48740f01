// Package sheet reads a YAML description of nodes, animated inputs,
// connections and context positions, and builds the graph it describes.
// Sheets are inspection fixtures and are never written back.
package sheet

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapanim/pkg/rational"
)

// File is the decoded form of a sheet.
type File struct {
	Nodes       []NodeSpec       `yaml:"nodes"`
	Connections []ConnectionSpec `yaml:"connections,omitempty"`
	Contexts    []ContextSpec    `yaml:"contexts,omitempty"`
}

// NodeSpec describes one node.
type NodeSpec struct {
	Name    string      `yaml:"name"`
	Default bool        `yaml:"default,omitempty"`
	Height  float64     `yaml:"height,omitempty"`
	Inputs  []InputSpec `yaml:"inputs,omitempty"`
	Outputs []string    `yaml:"outputs,omitempty"`
}

// InputSpec describes an input. Value, Min and Max are decoded according
// to Type. Elements makes the input an array.
type InputSpec struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name,omitempty"`
	Type        string         `yaml:"type"`
	Value       yaml.Node      `yaml:"value,omitempty"`
	Min         yaml.Node      `yaml:"min,omitempty"`
	Max         yaml.Node      `yaml:"max,omitempty"`
	Keyframable *bool          `yaml:"keyframable,omitempty"`
	Keyframing  bool           `yaml:"keyframing,omitempty"`
	Keyframes   []KeyframeSpec `yaml:"keyframes,omitempty"`
	Elements    []InputSpec    `yaml:"elements,omitempty"`
}

// KeyframeSpec describes a keyframe. An empty Type uses the process
// default keyframe type.
type KeyframeSpec struct {
	Time  Time        `yaml:"time"`
	Value yaml.Node   `yaml:"value"`
	Type  string      `yaml:"type,omitempty"`
	In    *HandleSpec `yaml:"in,omitempty"`
	Out   *HandleSpec `yaml:"out,omitempty"`
}

// HandleSpec describes a Bezier handle.
type HandleSpec struct {
	Time  float64   `yaml:"time"`
	Value yaml.Node `yaml:"value,omitempty"`
}

// ConnectionSpec wires From ("node.output") into To ("node.input" or
// "node.input[i]").
type ConnectionSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ContextSpec places nodes inside a context node.
type ContextSpec struct {
	Context   string         `yaml:"context"`
	Positions []PositionSpec `yaml:"positions"`
}

// PositionSpec is one node's position within a context.
type PositionSpec struct {
	Node string  `yaml:"node"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Time is a rational time written as "3", "1/24", "0.5" or "inf".
type Time struct {
	rational.Rational
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Time) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: time must be a scalar", n.Line)
	}
	r, err := rational.Parse(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	t.Rational = r
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Time) MarshalYAML() (any, error) {
	return t.Rational.String(), nil
}
