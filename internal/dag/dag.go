// Package dag indexes the connections between composition nodes. It answers
// cycle, reachability and evaluation-order questions over a snapshot of the
// edges. Iteration follows node insertion order so results are stable.
package dag

import (
	"fmt"
	"slices"
)

// Graph is a directed graph keyed by string ids. An edge parent -> child
// means the child consumes the parent's output.
type Graph[T any] struct {
	order    []string
	data     map[string]T
	children map[string][]string
	parents  map[string][]string
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		data:     make(map[string]T),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds a node, or replaces the data of an existing one.
func (g *Graph[T]) AddNode(id string, data T) {
	if _, exists := g.data[id]; !exists {
		g.order = append(g.order, id)
	}
	g.data[id] = data
}

// AddEdge adds a directed edge from parent to child. Duplicate edges are
// collapsed.
func (g *Graph[T]) AddEdge(parentID, childID string) error {
	if _, exists := g.data[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.data[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	if !slices.Contains(g.children[parentID], childID) {
		g.children[parentID] = append(g.children[parentID], childID)
	}
	if !slices.Contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// Data returns the payload stored for id.
func (g *Graph[T]) Data(id string) (T, bool) {
	d, ok := g.data[id]
	return d, ok
}

// Parents returns the direct upstream nodes of id.
func (g *Graph[T]) Parents(id string) []string { return slices.Clone(g.parents[id]) }

// Children returns the direct downstream nodes of id.
func (g *Graph[T]) Children(id string) []string { return slices.Clone(g.children[id]) }

// Len returns the number of nodes.
func (g *Graph[T]) Len() int { return len(g.order) }

// EdgeCount returns the number of distinct edges.
func (g *Graph[T]) EdgeCount() int {
	count := 0
	for _, children := range g.children {
		count += len(children)
	}
	return count
}

// Reaches reports whether to is downstream of from.
func (g *Graph[T]) Reaches(from, to string) bool {
	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range g.children[id] {
			if child == to {
				return true
			}
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return false
}

// WouldCycle reports whether adding parent -> child would close a cycle.
func (g *Graph[T]) WouldCycle(parentID, childID string) bool {
	return parentID == childID || g.Reaches(childID, parentID)
}

// HasCycle returns true if the graph contains a cycle, along with one
// cycle path that starts and ends on the same node.
func (g *Graph[T]) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	via := make(map[string]string)

	var cycle []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true

		for _, child := range g.children[id] {
			if !visited[child] {
				via[child] = id
				if dfs(child) {
					return true
				}
			} else if onStack[child] {
				cycle = []string{child}
				for cur := id; cur != child; cur = via[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, child)
				slices.Reverse(cycle)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] && dfs(id) {
			return true, cycle
		}
	}
	return false, nil
}

// TopologicalSort returns ids with every node after all of its parents.
// Unrelated nodes keep insertion order.
func (g *Graph[T]) TopologicalSort() ([]string, error) {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", path)
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.order))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parent := range g.parents[id] {
			visit(parent)
		}
		result = append(result, id)
	}

	for _, id := range g.order {
		visit(id)
	}
	return result, nil
}

// Levels groups nodes by depth: level 0 has no parents and level N only
// depends on earlier levels. Nodes in a level can be evaluated in parallel.
func (g *Graph[T]) Levels() ([][]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(sorted))
	var levels [][]string
	for _, id := range sorted {
		l := 0
		for _, parent := range g.parents[id] {
			l = max(l, level[parent]+1)
		}
		level[id] = l
		if l == len(levels) {
			levels = append(levels, nil)
		}
		levels[l] = append(levels[l], id)
	}
	return levels, nil
}

// Downstream returns the given nodes and everything that consumes them,
// in insertion order.
func (g *Graph[T]) Downstream(ids ...string) []string {
	marked := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		if marked[id] {
			return
		}
		marked[id] = true
		for _, child := range g.children[id] {
			mark(child)
		}
	}
	for _, id := range ids {
		if _, exists := g.data[id]; exists {
			mark(id)
		}
	}
	return g.filter(marked)
}

// Upstream returns every node id depends on, directly or transitively.
func (g *Graph[T]) Upstream(id string) []string {
	marked := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		for _, parent := range g.parents[id] {
			if !marked[parent] {
				marked[parent] = true
				mark(parent)
			}
		}
	}
	mark(id)
	return g.filter(marked)
}

// Roots returns nodes without parents.
func (g *Graph[T]) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns nodes without children.
func (g *Graph[T]) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

func (g *Graph[T]) filter(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, id := range g.order {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
