package graph

import (
	"sort"

	"go.uber.org/zap"

	"github.com/r-mibu/congress/policy"
)

// Options configures a RuleDependencyGraph. The zero value gives the
// defaults: bare atoms contribute nodes, every head and body literal
// is selected, and edges point from head tables to body tables.
type Options struct {
	// Theory is the default service for literals that carry none
	Theory string
	// ExcludeAtoms drops the node contribution of bare atoms
	ExcludeAtoms bool
	// BodyToHead reverses edge orientation
	BodyToHead bool
	// SelectHead filters which head literals contribute; nil selects all
	SelectHead func(*policy.Literal) bool
	// SelectBody filters which body literals contribute; nil selects all
	SelectBody func(*policy.Literal) bool
	// Logger receives debug diagnostics; nil disables them
	Logger *zap.Logger
}

// RuleDependencyGraph is a Graph over the table dependencies of a
// formula set: one node per table, and an edge (u, v, negated) for
// every rule with u in the head and v in the body. It maintains a
// refcounted modal index of head-modal usage and supports incremental
// formula insert/delete with an undo log.
type RuleDependencyGraph struct {
	*Graph

	opts       Options
	modalIndex *ModalIndex
	logger     *zap.Logger
}

// NewRuleDependencyGraph builds a graph over the given formulas
func NewRuleDependencyGraph(formulas []policy.Formula, opts Options) *RuleDependencyGraph {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &RuleDependencyGraph{
		Graph:      NewGraph(),
		opts:       opts,
		modalIndex: NewModalIndex(),
		logger:     logger,
	}
	for _, formula := range formulas {
		g.FormulaInsert(formula, opts.Theory)
	}
	return g
}

// FormulaInsert adds the nodes, edges and modal counts for the
// formula and returns the change log of the applied delta
func (g *RuleDependencyGraph) FormulaInsert(formula policy.Formula, theory string) []Change {
	return g.FormulaUpdate([]policy.Event{policy.NewEvent(formula, true, theory)})
}

// FormulaDelete removes the nodes, edges and modal counts for the
// formula and returns the change log of the applied delta
func (g *RuleDependencyGraph) FormulaDelete(formula policy.Formula, theory string) []Change {
	return g.FormulaUpdate([]policy.Event{policy.NewEvent(formula, false, theory)})
}

// FormulaUpdate applies a batch of insert/delete events and returns
// the linear change log. The log, replayed through UndoChanges,
// restores the graph exactly, which gives transactional batches:
// apply, check a downstream invariant such as stratification, and
// roll back on failure.
func (g *RuleDependencyGraph) FormulaUpdate(events []policy.Event) []Change {
	var changes []Change
	for _, event := range events {
		nodes, edges, modals := g.formulaNodesEdges(event.Formula, event.Target)
		if event.Insert {
			for _, node := range nodes {
				g.AddNode(node)
				changes = append(changes, Change{Kind: ChangeNode, Node: node, Insert: true})
			}
			for _, e := range edges {
				g.AddEdge(e.Source, e.Dest, e.Negated)
				changes = append(changes, Change{Kind: ChangeEdge, Edge: e, Insert: true})
			}
			g.modalIndex.Merge(modals)
			changes = append(changes, Change{Kind: ChangeModal, Modals: modals, Insert: true})
		} else {
			for _, node := range nodes {
				g.DeleteNode(node)
				changes = append(changes, Change{Kind: ChangeNode, Node: node, Insert: false})
			}
			for _, e := range edges {
				g.DeleteEdge(e.Source, e.Dest, e.Negated)
				changes = append(changes, Change{Kind: ChangeEdge, Edge: e, Insert: false})
			}
			g.modalIndex.Subtract(modals)
			changes = append(changes, Change{Kind: ChangeModal, Modals: modals, Insert: false})
		}
		g.logger.Debug("applied formula event",
			zap.Stringer("event", event),
			zap.Int("nodes", len(nodes)),
			zap.Int("edges", len(edges)))
	}
	return changes
}

// UndoChanges reverses a change log, most recent change first
func (g *RuleDependencyGraph) UndoChanges(changes []Change) {
	for i := len(changes) - 1; i >= 0; i-- {
		change := changes[i]
		switch change.Kind {
		case ChangeNode:
			if change.Insert {
				g.DeleteNode(change.Node)
			} else {
				g.AddNode(change.Node)
			}
		case ChangeEdge:
			if change.Insert {
				g.DeleteEdge(change.Edge.Source, change.Edge.Dest, change.Edge.Negated)
			} else {
				g.AddEdge(change.Edge.Source, change.Edge.Dest, change.Edge.Negated)
			}
		case ChangeModal:
			if change.Insert {
				g.modalIndex.Subtract(change.Modals)
			} else {
				g.modalIndex.Merge(change.Modals)
			}
		}
	}
}

// formulaNodesEdges computes the node/edge/modal delta one formula
// contributes, without touching the graph
func (g *RuleDependencyGraph) formulaNodesEdges(formula policy.Formula, theory string) ([]string, []Edge, *ModalIndex) {
	nodeSet := make(map[string]bool)
	edgeSet := make(map[Edge]bool)
	modals := NewModalIndex()

	switch f := formula.(type) {
	case *policy.Literal:
		if !g.opts.ExcludeAtoms {
			table := f.Table.GlobalTablename(theory)
			nodeSet[table] = true
			if f.Table.Modal != "" {
				modals.Add(f.Table.Modal, table)
			}
		}
	case *policy.Rule:
		for _, head := range f.Heads {
			if g.opts.SelectHead != nil && !g.opts.SelectHead(head) {
				continue
			}
			// a head with its own service yields theory:service:table
			headTable := head.Table.GlobalTablename(theory)
			if head.Table.Modal != "" {
				modals.Add(head.Table.Modal, headTable)
			}
			nodeSet[headTable] = true
			for _, lit := range f.Body {
				if g.opts.SelectBody != nil && !g.opts.SelectBody(lit) {
					continue
				}
				litTable := lit.Tablename(theory)
				nodeSet[litTable] = true
				if g.opts.BodyToHead {
					edgeSet[Edge{Source: litTable, Dest: headTable, Negated: lit.IsNegated()}] = true
				} else {
					edgeSet[Edge{Source: headTable, Dest: litTable, Negated: lit.IsNegated()}] = true
				}
			}
		}
	}

	nodes := make([]string, 0, len(nodeSet))
	for node := range nodeSet {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	edges := make([]Edge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
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
	return nodes, edges, modals
}

// TablesWithModal returns the tables appearing in some rule head with
// the given modal
func (g *RuleDependencyGraph) TablesWithModal(modal string) []string {
	return g.modalIndex.Tables(modal)
}

// TableDelete removes one refcount of the table's node
func (g *RuleDependencyGraph) TableDelete(table string) {
	g.DeleteNode(table)
}

// FindDependencies returns the tables that transitively depend on the
// given tables, the given tables included: the impact set of a change
// to those tables. Dual of FindDefinitions over the reversed edges.
func (g *RuleDependencyGraph) FindDependencies(tables []string) []string {
	return g.DependentNodes(tables)
}

// FindDefinitions returns the tables the given tables transitively
// depend on, the given tables included: everything needed to define
// them
func (g *RuleDependencyGraph) FindDefinitions(tables []string) []string {
	return g.ReachableNodes(tables)
}

// Tables returns the sorted table identities in the graph
func (g *RuleDependencyGraph) Tables() []string {
	return g.Nodes()
}

// IsRecursive reports whether the rules define some table, through a
// chain of dependencies, in terms of itself
func IsRecursive(rules []policy.Formula) bool {
	return NewRuleDependencyGraph(rules, Options{}).HasCycle()
}

// Stratification assigns each table in the rules a stratum; ok is
// false when no valid assignment exists
func Stratification(rules []policy.Formula) (map[string]int, bool) {
	return NewRuleDependencyGraph(rules, Options{}).Graph.Stratification()
}

// IsStratified reports whether no table is defined, through a chain
// of dependencies, in terms of its own negation
func IsStratified(rules []policy.Formula) bool {
	_, ok := Stratification(rules)
	return ok
}
