package graph

import (
	"github.com/leapstack-labs/leapanim/internal/dag"
	"github.com/leapstack-labs/leapanim/pkg/node"
)

// index builds the connection graph between owned nodes. Edges from nodes
// outside the graph are ignored.
func (g *Graph) index() *dag.Graph[*node.Node] {
	idx := dag.New[*node.Node]()
	for _, n := range g.nodes {
		idx.AddNode(n.ID().String(), n)
	}
	for _, n := range g.nodes {
		for _, in := range n.ConnectedInputs() {
			up, ok := in.ConnectedNode()
			if !ok || !g.Contains(up) {
				continue
			}
			_ = idx.AddEdge(up.ID().String(), n.ID().String())
		}
	}
	return idx
}

func (g *Graph) resolve(idx *dag.Graph[*node.Node], ids []string) []*node.Node {
	out := make([]*node.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := idx.Data(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// NodeOutputsToContext reports whether anything consuming n's outputs,
// directly or through other nodes, is placed inside a context.
func (g *Graph) NodeOutputsToContext(n *node.Node) bool {
	if !g.Contains(n) {
		return false
	}
	idx := g.index()
	self := n.ID().String()
	for _, id := range idx.Downstream(self) {
		if id == self {
			continue
		}
		if down, _ := idx.Data(id); g.NumberOfContextsNodeIsIn(down) > 0 {
			return true
		}
	}
	return false
}

// Downstream returns the nodes consuming n, directly or transitively.
func (g *Graph) Downstream(n *node.Node) []*node.Node {
	idx := g.index()
	self := n.ID().String()
	var ids []string
	for _, id := range idx.Downstream(self) {
		if id != self {
			ids = append(ids, id)
		}
	}
	return g.resolve(idx, ids)
}

// Upstream returns the nodes n depends on, directly or transitively.
func (g *Graph) Upstream(n *node.Node) []*node.Node {
	idx := g.index()
	return g.resolve(idx, idx.Upstream(n.ID().String()))
}

// TopologicalOrder returns the nodes with every node after the nodes
// feeding it.
func (g *Graph) TopologicalOrder() ([]*node.Node, error) {
	idx := g.index()
	ids, err := idx.TopologicalSort()
	if err != nil {
		return nil, err
	}
	return g.resolve(idx, ids), nil
}

// Levels groups nodes by connection depth. Nodes in one level do not
// depend on each other.
func (g *Graph) Levels() ([][]*node.Node, error) {
	idx := g.index()
	levels, err := idx.Levels()
	if err != nil {
		return nil, err
	}
	out := make([][]*node.Node, len(levels))
	for i, ids := range levels {
		out[i] = g.resolve(idx, ids)
	}
	return out, nil
}
