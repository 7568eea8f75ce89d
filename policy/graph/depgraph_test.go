package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/graph"
	"github.com/r-mibu/congress/policy/parser"
)

func parse(t *testing.T, input string) []policy.Formula {
	t.Helper()
	formulas, err := parser.Parse(input)
	require.NoError(t, err)
	return formulas
}

func parseRule(t *testing.T, input string) *policy.Rule {
	t.Helper()
	rule, err := parser.ParseRule(input)
	require.NoError(t, err)
	return rule
}

func TestRuleDependencyGraphNodesEdges(t *testing.T) {
	formulas := parse(t, "p(x) :- q(x), not r(x) q(1)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{})

	require.Equal(t, []string{"p", "q", "r"}, g.Tables())
	require.True(t, g.HasEdge("p", "q", false))
	require.True(t, g.HasEdge("p", "r", true))
	require.False(t, g.HasEdge("q", "p", false))
}

func TestRuleDependencyGraphBodyToHead(t *testing.T) {
	formulas := parse(t, "p(x) :- q(x)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{BodyToHead: true})

	require.True(t, g.HasEdge("q", "p", false))
	require.False(t, g.HasEdge("p", "q", false))
}

func TestRuleDependencyGraphExcludeAtoms(t *testing.T) {
	formulas := parse(t, "q(1)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{ExcludeAtoms: true})
	require.Empty(t, g.Tables())
}

func TestRuleDependencyGraphTheory(t *testing.T) {
	formulas := parse(t, "p(x) :- nova:q(x), r(x)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{Theory: "alice"})

	require.Equal(t, []string{"alice:p", "alice:r", "nova:q"}, g.Tables())
}

func TestFormulaDeleteRestores(t *testing.T) {
	base := parse(t, "p(x) :- q(x)")
	g := graph.NewRuleDependencyGraph(base, graph.Options{})
	before := g.Tables()

	rule := parseRule(t, "q(x) :- not s(x)")
	g.FormulaInsert(rule, "")
	require.Equal(t, []string{"p", "q", "s"}, g.Tables())
	require.True(t, g.HasEdge("q", "s", true))

	g.FormulaDelete(rule, "")
	require.Equal(t, before, g.Tables())
	require.False(t, g.HasEdge("q", "s", true))

	// q stays: the first rule still references it
	require.True(t, g.HasNode("q"))
}

func TestSharedTableRefcount(t *testing.T) {
	formulas := parse(t, "p(x) :- q(x) r(x) :- q(x)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{})

	g.FormulaDelete(formulas[0], "")
	require.True(t, g.HasNode("q"))
	g.FormulaDelete(formulas[1], "")
	require.False(t, g.HasNode("q"))
}

func TestUndoChanges(t *testing.T) {
	g := graph.NewRuleDependencyGraph(parse(t, "p(x) :- q(x)"), graph.Options{})
	wantNodes := g.Tables()
	wantEdges := g.Edges()

	changes := g.FormulaUpdate([]policy.Event{
		policy.NewEvent(parseRule(t, "q(x) :- not r(x)"), true, ""),
		policy.NewEvent(parseRule(t, "s(x) :- p(x)"), true, ""),
	})
	require.NotEqual(t, wantNodes, g.Tables())

	g.UndoChanges(changes)
	if diff := cmp.Diff(wantNodes, g.Tables()); diff != "" {
		t.Errorf("nodes not restored (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantEdges, g.Edges()); diff != "" {
		t.Errorf("edges not restored (-want +got):\n%s", diff)
	}
}

func TestUndoDelete(t *testing.T) {
	formulas := parse(t, "p(x) :- q(x), not r(x)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{})

	changes := g.FormulaDelete(formulas[0], "")
	require.Empty(t, g.Tables())

	g.UndoChanges(changes)
	require.Equal(t, []string{"p", "q", "r"}, g.Tables())
	require.True(t, g.HasEdge("p", "r", true))
}

func TestTablesWithModal(t *testing.T) {
	formulas := parse(t, "execute[nova:disconnect(x)] :- q(x)")
	g := graph.NewRuleDependencyGraph(formulas, graph.Options{})

	require.Equal(t, []string{"nova:disconnect"}, g.TablesWithModal("execute"))
	require.Empty(t, g.TablesWithModal("insert"))

	g.FormulaDelete(formulas[0], "")
	require.Empty(t, g.TablesWithModal("execute"))
}

func TestFindDependenciesAndDefinitions(t *testing.T) {
	g := graph.NewRuleDependencyGraph(parse(t, `
		p(x) :- q(x)
		q(x) :- r(x)
		s(x) :- r(x)
	`), graph.Options{})

	// everything that would be affected by a change to r
	require.Equal(t, []string{"p", "q", "r", "s"}, g.FindDependencies([]string{"r"}))
	require.Equal(t, []string{"p", "q"}, g.FindDependencies([]string{"q"}))

	// everything needed to define p
	require.Equal(t, []string{"p", "q", "r"}, g.FindDefinitions([]string{"p"}))
	require.Equal(t, []string{"r", "s"}, g.FindDefinitions([]string{"s"}))
}

func TestIsRecursive(t *testing.T) {
	require.False(t, graph.IsRecursive(parse(t, "p(x) :- q(x)")))
	require.True(t, graph.IsRecursive(parse(t, "p(x) :- q(x) q(x) :- p(x)")))
	require.True(t, graph.IsRecursive(parse(t, "p(x) :- p(x)")))
}

func TestStratificationFormulas(t *testing.T) {
	// recursion through negation is unstratifiable
	_, ok := graph.Stratification(parse(t, "p(x) :- not q(x) q(x) :- not p(x)"))
	require.False(t, ok)
	require.False(t, graph.IsStratified(parse(t, "p(x) :- not q(x) q(x) :- not p(x)")))

	strata, ok := graph.Stratification(parse(t, "p(x) :- not q(x) q(x) :- r(x)"))
	require.True(t, ok)
	require.Greater(t, strata["p"], strata["q"])
	require.True(t, graph.IsStratified(parse(t, "p(x) :- q(x) q(x) :- p(x)")))
}
