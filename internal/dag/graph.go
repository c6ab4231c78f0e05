// Package dag provides a small directed graph used to analyse questionnaire
// flows: cycle detection, reachability and step levels.
package dag

import (
	"fmt"
	"strings"
)

// Node represents a vertex in the graph.
type Node struct {
	ID       string   // Node identifier (question key)
	Edges    []string // Outgoing edges in insertion order, without duplicates
	Incoming []string // Nodes with an edge to this node
	Level    int      // Shortest distance from the start node (-1 if unreachable)
}

// Graph is a directed graph whose iteration order is the order in which nodes
// were added, so every result is deterministic.
type Graph struct {
	order  []string
	nodes  map[string]*Node
	levels []Level
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode adds a node. Returns an error if the ID is already present.
func (g *Graph) AddNode(id string) error {
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("adding node: duplicate node ID %s", id)
	}
	g.nodes[id] = &Node{ID: id, Level: -1}
	g.order = append(g.order, id)
	return nil
}

// AddEdge adds a directed edge. Both nodes must exist; repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) error {
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("adding edge: unknown node %s", from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("adding edge: unknown node %s", to)
	}
	for _, e := range src.Edges {
		if e == to {
			return nil
		}
	}
	src.Edges = append(src.Edges, to)
	dst.Incoming = append(dst.Incoming, from)
	return nil
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// GetNode returns a node by ID, or nil if not found.
func (g *Graph) GetNode(id string) *Node {
	return g.nodes[id]
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.order)
}

// Cycles returns one cycle per back edge found by a depth-first search that
// visits nodes and edges in insertion order. Each cycle starts and ends with
// the same node, e.g. [a b a].
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.order))
	var cycles [][]string
	var path []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = onStack
		path = append(path, id)
		for _, next := range g.nodes[id].Edges {
			switch state[next] {
			case unvisited:
				visit(next)
			case onStack:
				cycles = append(cycles, buildCyclePath(path, next))
			}
		}
		path = path[:len(path)-1]
		state[id] = done
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return cycles
}

// buildCyclePath constructs the cycle from the DFS path and the node closing it.
func buildCyclePath(path []string, cycleStart string) []string {
	for i, id := range path {
		if id == cycleStart {
			cycle := append([]string(nil), path[i:]...)
			return append(cycle, cycleStart)
		}
	}
	return append(append([]string(nil), path...), cycleStart)
}

// DetectCycle returns an error describing the first cycle, or nil.
func (g *Graph) DetectCycle() error {
	if cycles := g.Cycles(); len(cycles) > 0 {
		return fmt.Errorf("circular flow detected: %s", strings.Join(cycles[0], " -> "))
	}
	return nil
}

// Reachable returns the nodes reachable from start (start included) in
// insertion order. An unknown start reaches nothing.
func (g *Graph) Reachable(start string) []string {
	seen := g.walk(start)
	var out []string
	for _, id := range g.order {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// Unreachable returns the nodes that cannot be reached from start, in
// insertion order.
func (g *Graph) Unreachable(start string) []string {
	seen := g.walk(start)
	var out []string
	for _, id := range g.order {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func (g *Graph) walk(start string) map[string]bool {
	seen := make(map[string]bool)
	if _, ok := g.nodes[start]; !ok {
		return seen
	}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, g.nodes[id].Edges...)
	}
	return seen
}
