// Package graph holds the nodes of a composition, the placement of nodes
// inside context nodes, and the connections between them.
//
// A Graph is a single-writer structure: mutations and their events run
// synchronously on the caller's goroutine, with listeners invoked in
// subscription order before the mutating call returns.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapanim/pkg/node"
	"github.com/leapstack-labs/leapanim/pkg/notify"
)

var (
	ErrNodeExists  = errors.New("node is already in the graph")
	ErrUnknownNode = errors.New("node is not in the graph")
	ErrCycle       = errors.New("connection would create a cycle")
)

// EventKind identifies what a graph Event reports.
type EventKind uint8

const (
	NodeAdded EventKind = iota + 1
	NodeRemoved
	// NodePositionAdded covers both new and updated positions.
	NodePositionAdded
	NodePositionRemoved
	// InputEvent wraps an event raised by one of a node's inputs.
	InputEvent
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeRemoved:
		return "node-removed"
	case NodePositionAdded:
		return "node-position-added"
	case NodePositionRemoved:
		return "node-position-removed"
	case InputEvent:
		return "input"
	}
	return "unknown"
}

// Event is a structural change notification.
type Event struct {
	Kind     EventKind
	Node     *node.Node
	Context  *node.Node
	Position Point
	Input    node.Event
}

// Sizer reports the rendered height of a node in layout units.
type Sizer interface {
	NodeHeight(n *node.Node) float64
}

// SizerFunc adapts a function to Sizer.
type SizerFunc func(n *node.Node) float64

func (f SizerFunc) NodeHeight(n *node.Node) float64 { return f(n) }

// Option configures a Graph.
type Option func(*Graph)

// WithLocker sets the lock taken by connection changes requested with
// locking, and handed to every node added to the graph.
func WithLocker(mu sync.Locker) Option {
	return func(g *Graph) { g.locker = mu }
}

// WithSizer sets the node size source for NodeContextHeight. The default
// gives every node a height of 1.
func WithSizer(s Sizer) Option {
	return func(g *Graph) { g.sizer = s }
}

// Graph owns a set of nodes. Connections live on the nodes themselves; the
// graph validates them and derives its connection index from them.
type Graph struct {
	nodes     []*node.Node
	subs      map[*node.Node]notify.Subscription
	defaults  []*node.Node
	positions map[*node.Node]PositionMap

	locker sync.Locker
	sizer  Sizer

	events notify.Dispatcher[Event]
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		subs:      make(map[*node.Node]notify.Subscription),
		positions: make(map[*node.Node]PositionMap),
		sizer:     SizerFunc(func(*node.Node) float64 { return 1 }),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Subscribe registers fn for graph events.
func (g *Graph) Subscribe(fn func(Event)) notify.Subscription {
	return g.events.Subscribe(fn)
}

// Unsubscribe removes a listener registered with Subscribe.
func (g *Graph) Unsubscribe(s notify.Subscription) bool {
	return g.events.Unsubscribe(s)
}

// Nodes returns the graph's nodes in the order they were added.
func (g *Graph) Nodes() []*node.Node { return slices.Clone(g.nodes) }

// DefaultNodes returns the nodes added with AddDefaultNode.
func (g *Graph) DefaultNodes() []*node.Node { return slices.Clone(g.defaults) }

// Contains reports whether n belongs to the graph.
func (g *Graph) Contains(n *node.Node) bool {
	_, ok := g.subs[n]
	return ok
}

// NodeByID looks a node up by id.
func (g *Graph) NodeByID(id uuid.UUID) (*node.Node, bool) {
	for _, n := range g.nodes {
		if n.ID() == id {
			return n, true
		}
	}
	return nil, false
}

// NodeByName returns the first node with the given name.
func (g *Graph) NodeByName(name string) (*node.Node, bool) {
	for _, n := range g.nodes {
		if n.Name() == name {
			return n, true
		}
	}
	return nil, false
}

// AddNode takes ownership of n and emits NodeAdded once it is registered.
func (g *Graph) AddNode(n *node.Node) error {
	if g.Contains(n) {
		return fmt.Errorf("add node %s: %w", n, ErrNodeExists)
	}
	if err := n.Attach(g, g.locker); err != nil {
		return fmt.Errorf("add node: %w", err)
	}

	g.nodes = append(g.nodes, n)
	g.subs[n] = n.Subscribe(func(e node.Event) {
		g.events.Emit(Event{Kind: InputEvent, Node: n, Input: e})
	})

	g.events.Emit(Event{Kind: NodeAdded, Node: n})
	return nil
}

// AddDefaultNode adds n and records it as one of the graph's default nodes.
func (g *Graph) AddDefaultNode(n *node.Node) error {
	if err := g.AddNode(n); err != nil {
		return err
	}
	g.defaults = append(g.defaults, n)
	return nil
}

// RemoveNode disconnects n, prunes every position entry that refers to it,
// releases it and finally emits NodeRemoved.
func (g *Graph) RemoveNode(n *node.Node) error {
	if !g.Contains(n) {
		return fmt.Errorf("remove node %s: %w", n, ErrUnknownNode)
	}

	n.DisconnectAll()
	g.prunePositions(n)

	g.nodes = slices.DeleteFunc(g.nodes, func(o *node.Node) bool { return o == n })
	g.defaults = slices.DeleteFunc(g.defaults, func(o *node.Node) bool { return o == n })
	n.Unsubscribe(g.subs[n])
	delete(g.subs, n)
	n.Detach(g)

	g.events.Emit(Event{Kind: NodeRemoved, Node: n})
	return nil
}

// Clear removes every node, newest first. It is safe on an empty graph.
func (g *Graph) Clear() {
	for len(g.nodes) > 0 {
		_ = g.RemoveNode(g.nodes[len(g.nodes)-1])
	}
}

// Connect wires out into in after checking both nodes belong to the graph
// and that no cycle would form. With lock set, the graph's lock is held
// while the edge is made.
func (g *Graph) Connect(out *node.Output, in *node.Input, lock bool) error {
	up, down := out.Node(), in.Node()
	if up == nil || !g.Contains(up) {
		return fmt.Errorf("connect %s: %w", out, ErrUnknownNode)
	}
	if down == nil || !g.Contains(down) {
		return fmt.Errorf("connect %s: %w", in, ErrUnknownNode)
	}
	if g.index().WouldCycle(up.ID().String(), down.ID().String()) {
		return fmt.Errorf("connect %s to %s: %w", out, in, ErrCycle)
	}

	if lock && g.locker != nil {
		g.locker.Lock()
		defer g.locker.Unlock()
	}
	return node.ConnectEdge(out, in)
}

// Disconnect removes the edge from out to in.
func (g *Graph) Disconnect(out *node.Output, in *node.Input) error {
	if down := in.Node(); down == nil || !g.Contains(down) {
		return fmt.Errorf("disconnect %s: %w", in, ErrUnknownNode)
	}
	return node.DisconnectEdge(out, in)
}

var _ node.Connector = (*Graph)(nil)
