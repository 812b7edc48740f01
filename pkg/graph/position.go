package graph

import (
	"fmt"
	"maps"

	"github.com/leapstack-labs/leapanim/pkg/node"
)

// Point is a 2-D layout position.
type Point struct {
	X, Y float64
}

// PositionMap maps contained nodes to their position inside a context.
type PositionMap map[*node.Node]Point

// SetNodePosition places n inside context, replacing any previous
// position, and emits NodePositionAdded.
func (g *Graph) SetNodePosition(n, context *node.Node, pos Point) error {
	if err := g.checkOwned("set position", n, context); err != nil {
		return err
	}

	m, ok := g.positions[context]
	if !ok {
		m = make(PositionMap)
		g.positions[context] = m
	}
	m[n] = pos

	g.events.Emit(Event{Kind: NodePositionAdded, Node: n, Context: context, Position: pos})
	return nil
}

// RemoveNodePosition removes n from context and emits NodePositionRemoved.
// A context left empty is dropped. Removing an absent entry is a no-op.
func (g *Graph) RemoveNodePosition(n, context *node.Node) error {
	if err := g.checkOwned("remove position", n, context); err != nil {
		return err
	}
	if !g.removePosition(n, context) {
		return nil
	}
	g.events.Emit(Event{Kind: NodePositionRemoved, Node: n, Context: context})
	return nil
}

func (g *Graph) removePosition(n, context *node.Node) bool {
	m, ok := g.positions[context]
	if !ok {
		return false
	}
	if _, ok := m[n]; !ok {
		return false
	}
	delete(m, n)
	if len(m) == 0 {
		delete(g.positions, context)
	}
	return true
}

// prunePositions drops every entry naming n as a contained node or as a
// context, emitting NodePositionRemoved for each in node order.
func (g *Graph) prunePositions(n *node.Node) {
	for _, contained := range g.nodes {
		if g.removePosition(contained, n) {
			g.events.Emit(Event{Kind: NodePositionRemoved, Node: contained, Context: n})
		}
	}
	for _, context := range g.nodes {
		if context == n {
			continue
		}
		if g.removePosition(n, context) {
			g.events.Emit(Event{Kind: NodePositionRemoved, Node: n, Context: context})
		}
	}
}

func (g *Graph) checkOwned(op string, nodes ...*node.Node) error {
	for _, n := range nodes {
		if !g.Contains(n) {
			return fmt.Errorf("%s for %s: %w", op, n, ErrUnknownNode)
		}
	}
	return nil
}

// NodePosition returns the position of n inside context.
func (g *Graph) NodePosition(n, context *node.Node) (Point, bool) {
	p, ok := g.positions[context][n]
	return p, ok
}

// NodeMapContainsNode reports whether context's position map has n.
// Lookups never create entries.
func (g *Graph) NodeMapContainsNode(n, context *node.Node) bool {
	_, ok := g.positions[context][n]
	return ok
}

// ContextContainsNode reports whether n is placed inside context.
func (g *Graph) ContextContainsNode(n, context *node.Node) bool {
	return g.NodeMapContainsNode(n, context)
}

// NodesForContext returns a copy of context's position map. It is nil for
// a context with no entries.
func (g *Graph) NodesForContext(context *node.Node) PositionMap {
	m, ok := g.positions[context]
	if !ok {
		return nil
	}
	return maps.Clone(m)
}

// PositionMap returns a deep copy of every context's position map.
func (g *Graph) PositionMap() map[*node.Node]PositionMap {
	out := make(map[*node.Node]PositionMap, len(g.positions))
	for ctx, m := range g.positions {
		out[ctx] = maps.Clone(m)
	}
	return out
}

// Contexts returns the nodes that currently hold positions, in node order.
func (g *Graph) Contexts() []*node.Node {
	var out []*node.Node
	for _, n := range g.nodes {
		if _, ok := g.positions[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// NumberOfContextsNodeIsIn counts the contexts in which n is placed.
func (g *Graph) NumberOfContextsNodeIsIn(n *node.Node) int {
	count := 0
	for _, m := range g.positions {
		if _, ok := m[n]; ok {
			count++
		}
	}
	return count
}

// NodeContextHeight returns the vertical extent of the nodes placed in
// context: the lowest position plus that node's height, minus the highest
// position. An empty context has height 0.
func (g *Graph) NodeContextHeight(context *node.Node) float64 {
	m := g.positions[context]
	if len(m) == 0 {
		return 0
	}

	first := true
	var top, bottom float64
	for n, p := range m {
		end := p.Y + g.sizer.NodeHeight(n)
		if first {
			top, bottom = p.Y, end
			first = false
			continue
		}
		top = min(top, p.Y)
		bottom = max(bottom, end)
	}
	return bottom - top
}
