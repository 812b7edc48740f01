package node

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapanim/pkg/notify"
)

// Node is an identity-addressed unit of a composition graph. It owns its
// inputs and outputs and re-emits every input event to its own listeners.
type Node struct {
	id      uuid.UUID
	name    string
	inputs  []*Input
	outputs []*Output

	owner  any
	locker sync.Locker

	events notify.Dispatcher[Event]
}

// New returns an unowned node with a fresh id.
func New(name string) *Node {
	return &Node{id: uuid.New(), name: name}
}

// ID returns the node's unique id.
func (n *Node) ID() uuid.UUID { return n.id }

// Name returns the display name.
func (n *Node) Name() string { return n.name }

// SetName sets the display name.
func (n *Node) SetName(name string) { n.name = name }

func (n *Node) String() string {
	if n.name != "" {
		return n.name
	}
	return n.id.String()
}

// AddInput takes ownership of in.
func (n *Node) AddInput(in *Input) error {
	if in.node != nil || in.parent != nil {
		return fmt.Errorf("add input %q to %s: %w", in.id, n, ErrInputOwned)
	}
	if n.hasParam(in.id) {
		return fmt.Errorf("add input %q to %s: %w", in.id, n, ErrDuplicateParam)
	}
	in.node = n
	n.inputs = append(n.inputs, in)
	return nil
}

// AddOutput creates an output with the given id.
func (n *Node) AddOutput(id string) (*Output, error) {
	if n.hasParam(id) {
		return nil, fmt.Errorf("add output %q to %s: %w", id, n, ErrDuplicateParam)
	}
	o := &Output{id: id, node: n}
	n.outputs = append(n.outputs, o)
	return o, nil
}

func (n *Node) hasParam(id string) bool {
	_, in := n.Input(id)
	_, out := n.Output(id)
	return in || out
}

// Input returns the input with the given id.
func (n *Node) Input(id string) (*Input, bool) {
	for _, in := range n.inputs {
		if in.id == id {
			return in, true
		}
	}
	return nil, false
}

// Inputs returns the node's inputs in the order they were added.
func (n *Node) Inputs() []*Input { return slices.Clone(n.inputs) }

// Output returns the output with the given id.
func (n *Node) Output(id string) (*Output, bool) {
	for _, o := range n.outputs {
		if o.id == id {
			return o, true
		}
	}
	return nil, false
}

// Outputs returns the node's outputs in the order they were added.
func (n *Node) Outputs() []*Output { return slices.Clone(n.outputs) }

// ConnectedInputs returns every input of n, including array elements,
// that has an upstream connection.
func (n *Node) ConnectedInputs() []*Input {
	var out []*Input
	for _, in := range n.inputs {
		out = in.appendConnected(out)
	}
	return out
}

func (in *Input) appendConnected(dst []*Input) []*Input {
	if in.output != nil {
		dst = append(dst, in)
	}
	for _, e := range in.array {
		dst = e.appendConnected(dst)
	}
	return dst
}

// DisconnectAll removes every connection into and out of n.
func (n *Node) DisconnectAll() {
	for _, in := range n.ConnectedInputs() {
		_ = DisconnectEdge(in.output, in)
	}
	for _, o := range n.outputs {
		for _, in := range o.Edges() {
			_ = DisconnectEdge(o, in)
		}
	}
}

// Subscribe registers fn for events from all of n's inputs.
func (n *Node) Subscribe(fn func(Event)) notify.Subscription {
	return n.events.Subscribe(fn)
}

// Unsubscribe removes a listener registered with Subscribe.
func (n *Node) Unsubscribe(s notify.Subscription) bool {
	return n.events.Unsubscribe(s)
}

func (n *Node) forward(e Event) {
	n.events.Emit(e)
}

// Attach records owner as the node's owner. mu, if not nil, guards
// connection changes requested with locking. Attaching to the current
// owner again is allowed.
func (n *Node) Attach(owner any, mu sync.Locker) error {
	if n.owner != nil && n.owner != owner {
		return fmt.Errorf("attach %s: %w", n, ErrNodeOwned)
	}
	n.owner = owner
	n.locker = mu
	return nil
}

// Detach clears the owner if it is owner.
func (n *Node) Detach(owner any) bool {
	if n.owner != owner {
		return false
	}
	n.owner = nil
	n.locker = nil
	return true
}

// Owner returns the current owner, or nil.
func (n *Node) Owner() any { return n.owner }

// Locker returns the lock supplied by the owner, or nil.
func (n *Node) Locker() sync.Locker { return n.locker }
