package node

import (
	"fmt"

	"github.com/leapstack-labs/leapanim/pkg/notify"
	"github.com/leapstack-labs/leapanim/pkg/timerange"
	"github.com/leapstack-labs/leapanim/pkg/value"
)

const defaultInputName = "Input"

// Input is an animatable, typed parameter. It either holds a constant
// standard value or an ordered set of keyframes, and may be a scalar or an
// array of element inputs.
//
// An Input is a single-writer structure. Mutations and the events they emit
// run synchronously on the caller's goroutine. Concurrent readers must work
// on a detached copy (see CopyValues).
type Input struct {
	id       string
	name     string
	dataType DataType

	node   *Node
	parent *Input
	index  int

	standard    value.Value
	keyframing  bool
	keyframable bool
	min, max    value.Value
	hasMin      bool
	hasMax      bool

	// keys is sorted by strictly ascending keyframe time.
	keys  []KeyframeID
	arena arena

	isArray bool
	array   []*Input

	output *Output

	events notify.Dispatcher[Event]
}

// NewInput returns a keyframable scalar input holding standard as its
// constant value.
func NewInput(id string, dt DataType, standard value.Value) (*Input, error) {
	if !dt.accepts(standard) {
		return nil, fmt.Errorf("new input %q: %s value for %s input: %w", id, standard.Kind(), dt, ErrValueType)
	}
	return &Input{
		id:          id,
		dataType:    dt,
		standard:    standard,
		keyframable: true,
		index:       -1,
	}, nil
}

// NewInputArray returns an empty array input. standard seeds the value of
// every element created by SetArraySize.
func NewInputArray(id string, dt DataType, standard value.Value) (*Input, error) {
	in, err := NewInput(id, dt, standard)
	if err != nil {
		return nil, err
	}
	in.isArray = true
	return in, nil
}

// ID returns the parameter identity shared by copies of this input.
func (in *Input) ID() string { return in.id }

// Name returns the display name, falling back to "Input".
func (in *Input) Name() string {
	if in.name == "" {
		return defaultInputName
	}
	return in.name
}

// SetName sets the display name.
func (in *Input) SetName(name string) { in.name = name }

// DataType returns the declared data type.
func (in *Input) DataType() DataType { return in.dataType }

// Node returns the node this input belongs to, or nil. Array elements
// report their array's node.
func (in *Input) Node() *Node {
	if in.parent != nil {
		return in.parent.Node()
	}
	return in.node
}

// IsArray reports whether the input is an array of element inputs.
func (in *Input) IsArray() bool { return in.isArray }

// ArrayIndex returns the element's position in its array, or -1.
func (in *Input) ArrayIndex() int { return in.index }

// Parent returns the array input owning this element, or nil.
func (in *Input) Parent() *Input { return in.parent }

// Subscribe registers fn for this input's events.
func (in *Input) Subscribe(fn func(Event)) notify.Subscription {
	return in.events.Subscribe(fn)
}

// Unsubscribe removes a listener registered with Subscribe.
func (in *Input) Unsubscribe(s notify.Subscription) bool {
	return in.events.Unsubscribe(s)
}

func (in *Input) emit(e Event) {
	e.Input = in
	in.events.Emit(e)
	if n := in.Node(); n != nil {
		n.forward(e)
	}
}

func (in *Input) emitRange(r timerange.Range) {
	in.emit(Event{Kind: ValueChanged, Range: r})
}

// StandardValue returns the constant value used when not keyframing.
func (in *Input) StandardValue() value.Value { return in.standard }

// SetStandardValue stores v. Listeners see an all-time ValueChanged only
// when the standard value is what evaluation currently returns.
func (in *Input) SetStandardValue(v value.Value) error {
	if !in.dataType.accepts(v) {
		return fmt.Errorf("set standard value of %q: %w", in.id, ErrValueType)
	}
	in.standard = v
	if in.IsUsingStandardValue() {
		in.emitRange(timerange.All())
	}
	return nil
}

// IsUsingStandardValue reports whether evaluation ignores keyframes.
func (in *Input) IsUsingStandardValue() bool {
	return !in.keyframing || len(in.keys) == 0
}

// IsKeyframing reports whether keyframing is enabled.
func (in *Input) IsKeyframing() bool { return in.keyframing }

// SetKeyframing toggles keyframing and emits KeyframingChanged. Keyframes
// are left alone and no value range is invalidated.
func (in *Input) SetKeyframing(enabled bool) error {
	if enabled && !in.keyframable {
		return fmt.Errorf("enable keyframing on %q: %w", in.id, ErrNotKeyframable)
	}
	in.keyframing = enabled
	in.emit(Event{Kind: KeyframingChanged, Keyframing: enabled})
	return nil
}

// IsKeyframable reports whether keyframing may be enabled.
func (in *Input) IsKeyframable() bool { return in.keyframable }

// SetKeyframable gates SetKeyframing and InsertKeyframe.
func (in *Input) SetKeyframable(k bool) { in.keyframable = k }

// Minimum returns the declared lower bound. Bounds are advisory and never
// applied to stored or evaluated values.
func (in *Input) Minimum() (value.Value, bool) { return in.min, in.hasMin }

// SetMinimum declares a lower bound.
func (in *Input) SetMinimum(v value.Value) error {
	if !in.dataType.accepts(v) {
		return fmt.Errorf("set minimum of %q: %w", in.id, ErrValueType)
	}
	in.min, in.hasMin = v, true
	return nil
}

// Maximum returns the declared upper bound.
func (in *Input) Maximum() (value.Value, bool) { return in.max, in.hasMax }

// SetMaximum declares an upper bound.
func (in *Input) SetMaximum(v value.Value) error {
	if !in.dataType.accepts(v) {
		return fmt.Errorf("set maximum of %q: %w", in.id, ErrValueType)
	}
	in.max, in.hasMax = v, true
	return nil
}

// ConnectedOutput returns the output feeding this input.
func (in *Input) ConnectedOutput() (*Output, bool) {
	return in.output, in.output != nil
}

// ConnectedNode returns the node whose output feeds this input.
func (in *Input) ConnectedNode() (*Node, bool) {
	if in.output == nil || in.output.node == nil {
		return nil, false
	}
	return in.output.node, true
}

func (in *Input) String() string {
	if n := in.Node(); n != nil {
		return n.Name() + "." + in.id
	}
	return in.id
}
