package node

import (
	"fmt"
	"slices"
)

// Output is a node's value source. It may feed any number of inputs.
type Output struct {
	id    string
	node  *Node
	edges []*Input
}

// ID returns the output's id within its node.
func (o *Output) ID() string { return o.id }

// Node returns the node the output belongs to.
func (o *Output) Node() *Node { return o.node }

// Edges returns the inputs connected to o, in connection order.
func (o *Output) Edges() []*Input { return slices.Clone(o.edges) }

func (o *Output) String() string {
	if o.node != nil {
		return o.node.Name() + "." + o.id
	}
	return o.id
}

// ConnectEdge wires out into in and emits InputConnected on in. An input
// accepts a single connection.
func ConnectEdge(out *Output, in *Input) error {
	if in.output != nil {
		return fmt.Errorf("connect %s to %s: %w", out, in, ErrInputConnected)
	}
	in.output = out
	out.edges = append(out.edges, in)
	in.emit(Event{Kind: InputConnected, Output: out})
	return nil
}

// DisconnectEdge removes the connection from out to in and emits
// InputDisconnected on in.
func DisconnectEdge(out *Output, in *Input) error {
	if in.output != out {
		return fmt.Errorf("disconnect %s from %s: %w", out, in, ErrNotConnected)
	}
	in.output = nil
	if i := slices.Index(out.edges, in); i >= 0 {
		out.edges = slices.Delete(out.edges, i, i+1)
	}
	in.emit(Event{Kind: InputDisconnected, Output: out})
	return nil
}
