// SPDX-License-Identifier: MPL-2.0

// Package dag provides a small directed graph with cycle detection. It is
// used to validate that task invocations (a task's run and finally blocks
// calling other tasks) never loop back on themselves.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle.
	CycleError[K comparable] struct {
		// Cycle is the path that closes the loop. The first and last
		// elements are the same node, e.g. [a b a].
		Cycle []K
	}

	// Graph is a directed graph. An edge from A to B means "A invokes B".
	Graph[K comparable] struct {
		// adjacency maps each node to its outgoing neighbors in insertion order.
		adjacency map[K][]K
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []K
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[K]bool
	}
)

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		adjacency: make(map[K][]K),
		nodeSet:   make(map[K]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if g.nodeSet[n] {
		return
	}
	g.nodeSet[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge adds a directed edge from -> to.
// Both nodes are implicitly added if they don't exist.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Neighbors returns the outgoing edges of n in insertion order.
func (g *Graph[K]) Neighbors(n K) []K {
	return append([]K(nil), g.adjacency[n]...)
}

// FindCycle walks the graph depth-first from every node in insertion order
// and returns a CycleError for the first node reached again while it is
// still on the current path. Nodes whose subgraph is fully explored are not
// walked twice.
func (g *Graph[K]) FindCycle() error {
	done := make(map[K]bool, len(g.nodes))
	onPath := make(map[K]bool)
	var path []K

	var visit func(n K) error
	visit = func(n K) error {
		if onPath[n] {
			cycle := append(append([]K(nil), path...), n)
			return &CycleError[K]{Cycle: cycle}
		}
		if done[n] {
			return nil
		}

		onPath[n] = true
		path = append(path, n)
		for _, next := range g.adjacency[n] {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		onPath[n] = false
		done[n] = true
		return nil
	}

	for _, n := range g.nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

// Reachable returns every node reachable from start, start included, in
// depth-first preorder.
func (g *Graph[K]) Reachable(start K) []K {
	seen := make(map[K]bool)
	var out []K
	var visit func(n K)
	visit = func(n K) {
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		for _, next := range g.adjacency[n] {
			visit(next)
		}
	}
	visit(start)
	return out
}
