// Package graph provides the table-dependency graph over a set of
// policy formulas: a refcounted directed multigraph with incremental
// insert/delete and undo, cycle detection, stratification, and
// reachability queries.
package graph

import "sort"

// Edge is a directed dependency between two tables. Negated records
// whether the dependency passes through a negated body literal;
// edges that differ only in Negated coexist.
type Edge struct {
	Source  string
	Dest    string
	Negated bool
}

type edgeLabel struct {
	dest    string
	negated bool
}

// Graph is a refcounted directed multigraph over table-identity
// strings. Nodes and edges are bags: inserting the same node or edge
// twice requires deleting it twice. A Graph is owned by a single
// caller; concurrent mutation is not supported.
type Graph struct {
	nodes map[string]int
	edges map[string]map[edgeLabel]int
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]int),
		edges: make(map[string]map[edgeLabel]int),
	}
}

// AddNode increments the node's refcount, creating it at 1
func (g *Graph) AddNode(node string) {
	g.nodes[node]++
}

// DeleteNode decrements the node's refcount, removing it at 0.
// Deleting an absent node is a no-op.
func (g *Graph) DeleteNode(node string) {
	if _, ok := g.nodes[node]; !ok {
		return
	}
	g.nodes[node]--
	if g.nodes[node] <= 0 {
		delete(g.nodes, node)
	}
}

// HasNode reports whether the node is present
func (g *Graph) HasNode(node string) bool {
	_, ok := g.nodes[node]
	return ok
}

// AddEdge increments the edge's refcount. Endpoints are not added
// implicitly; callers add nodes themselves.
func (g *Graph) AddEdge(src, dst string, negated bool) {
	out := g.edges[src]
	if out == nil {
		out = make(map[edgeLabel]int)
		g.edges[src] = out
	}
	out[edgeLabel{dest: dst, negated: negated}]++
}

// DeleteEdge decrements the edge's refcount, removing it at 0
func (g *Graph) DeleteEdge(src, dst string, negated bool) {
	out := g.edges[src]
	if out == nil {
		return
	}
	label := edgeLabel{dest: dst, negated: negated}
	if _, ok := out[label]; !ok {
		return
	}
	out[label]--
	if out[label] <= 0 {
		delete(out, label)
		if len(out) == 0 {
			delete(g.edges, src)
		}
	}
}

// HasEdge reports whether the edge is present
func (g *Graph) HasEdge(src, dst string, negated bool) bool {
	out := g.edges[src]
	if out == nil {
		return false
	}
	_, ok := out[edgeLabel{dest: dst, negated: negated}]
	return ok
}

// Nodes returns the sorted node identities
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Edges returns every edge, sorted for deterministic iteration
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for src, out := range g.edges {
		for label := range out {
			edges = append(edges, Edge{Source: src, Dest: label.dest, Negated: label.negated})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Dest != b.Dest {
			return a.Dest < b.Dest
		}
		return !a.Negated && b.Negated
	})
	return edges
}

// HasCycle reports whether the graph contains a directed cycle,
// via DFS with white/grey/black coloring
func (g *Graph) HasCycle() bool {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.nodes))

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = grey
		for label := range g.edges[node] {
			switch color[label.dest] {
			case grey:
				return true
			case white:
				if visit(label.dest) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for node := range g.nodes {
		if color[node] == white && visit(node) {
			return true
		}
	}
	return false
}

// Stratification assigns each node a non-negative stratum such that
// every negated edge (u, v) has stratum(u) > stratum(v) and every
// positive edge has stratum(u) >= stratum(v). Computed by iterative
// relaxation from all-zero, bounded by the node count: exceeding the
// bound proves some table depends on its own negation, and ok is
// false (no valid assignment exists).
func (g *Graph) Stratification() (map[string]int, bool) {
	strata := make(map[string]int, len(g.nodes))
	for node := range g.nodes {
		strata[node] = 0
	}

	edges := g.Edges()
	for iteration := 0; ; iteration++ {
		if iteration > len(g.nodes) {
			return nil, false
		}
		changed := false
		for _, e := range edges {
			if e.Negated {
				if strata[e.Source] <= strata[e.Dest] {
					strata[e.Source] = strata[e.Dest] + 1
					changed = true
				}
			} else if strata[e.Source] < strata[e.Dest] {
				strata[e.Source] = strata[e.Dest]
				changed = true
			}
		}
		if !changed {
			return strata, true
		}
	}
}

// DependentNodes returns the nodes that depend on the roots, roots
// included: node u depends on v when the graph has an edge u -> v, so
// this follows edges backward
func (g *Graph) DependentNodes(roots []string) []string {
	return g.reachable(roots, true)
}

// ReachableNodes returns the nodes reachable from roots by following
// edges forward, roots included
func (g *Graph) ReachableNodes(roots []string) []string {
	return g.reachable(roots, false)
}

func (g *Graph) reachable(roots []string, reversed bool) []string {
	adjacency := g.edges
	if reversed {
		adjacency = g.reversedEdges()
	}
	seen := make(map[string]bool)
	stack := append([]string(nil), roots...)
	for _, root := range roots {
		seen[root] = true
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for label := range adjacency[node] {
			if !seen[label.dest] {
				seen[label.dest] = true
				stack = append(stack, label.dest)
			}
		}
	}
	result := make([]string, 0, len(seen))
	for node := range seen {
		result = append(result, node)
	}
	sort.Strings(result)
	return result
}

func (g *Graph) reversedEdges() map[string]map[edgeLabel]int {
	reversed := make(map[string]map[edgeLabel]int, len(g.edges))
	for src, out := range g.edges {
		for label, count := range out {
			in := reversed[label.dest]
			if in == nil {
				in = make(map[edgeLabel]int)
				reversed[label.dest] = in
			}
			in[edgeLabel{dest: src, negated: label.negated}] += count
		}
	}
	return reversed
}
