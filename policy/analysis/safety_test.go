package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/analysis"
	"github.com/r-mibu/congress/policy/builtin"
	"github.com/r-mibu/congress/policy/parser"
)

func parseRule(t *testing.T, input string) *policy.Rule {
	t.Helper()
	rule, err := parser.ParseRule(input)
	require.NoError(t, err)
	return rule
}

func bodyString(rule *policy.Rule) string {
	parts := make([]string, len(rule.Body))
	for i, lit := range rule.Body {
		parts[i] = lit.String()
	}
	return strings.Join(parts, ", ")
}

func TestReorderAlreadySafe(t *testing.T) {
	rule := parseRule(t, "p(x) :- q(x), not r(x)")
	got, err := analysis.ReorderForSafety(rule, nil)
	require.NoError(t, err)
	require.Same(t, rule, got)
}

func TestReorderMovesNegation(t *testing.T) {
	rule := parseRule(t, "p(x, y) :- not q(x, y), p(x), r(y)")
	got, err := analysis.ReorderForSafety(rule, nil)
	require.NoError(t, err)
	require.Equal(t, "p(x), r(y), not q(x, y)", bodyString(got))

	// the input rule was not modified, and identity is preserved
	require.Equal(t, "not q(x, y), p(x), r(y)", bodyString(rule))
	require.Equal(t, rule.ID, got.ID)
	require.True(t, rule.Equal(got))
}

func TestReorderMinimalMovement(t *testing.T) {
	// the negated literal becomes safe as soon as p binds x; it must
	// not drift past r
	rule := parseRule(t, "p(x) :- not q(x), p(x), r(x)")
	got, err := analysis.ReorderForSafety(rule, nil)
	require.NoError(t, err)
	require.Equal(t, "p(x), not q(x), r(x)", bodyString(got))
}

func TestReorderUnsafe(t *testing.T) {
	rule := parseRule(t, "p(x) :- p(x), not q(x, y)")
	_, err := analysis.ReorderForSafety(rule, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsafe literals")
	require.Contains(t, err.Error(), "vars y")
}

func TestReorderUnsafeListsAll(t *testing.T) {
	rule := parseRule(t, "p(x) :- p(x), not q(y), not r(z)")
	_, err := analysis.ReorderForSafety(rule, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not q(y) (vars y)")
	require.Contains(t, err.Error(), "not r(z) (vars z)")
}

func TestReorderBuiltins(t *testing.T) {
	builtins := builtin.DefaultRegistry()

	// plus(x, y, z) needs x and y bound; z is an output
	rule := parseRule(t, "p(z) :- plus(x, y, z), q(x), r(y)")
	got, err := analysis.ReorderForSafety(rule, builtins)
	require.NoError(t, err)
	require.Equal(t, "q(x), r(y), plus(x, y, z)", bodyString(got))
}

func TestReorderBuiltinUnsafe(t *testing.T) {
	builtins := builtin.DefaultRegistry()

	rule := parseRule(t, "p(z) :- plus(x, y, z), q(x)")
	_, err := analysis.ReorderForSafety(rule, builtins)
	require.Error(t, err)
	require.Contains(t, err.Error(), "vars y")
}

func TestReorderBuiltinConstantsInputs(t *testing.T) {
	builtins := builtin.DefaultRegistry()

	// constant inputs need no binding
	rule := parseRule(t, "p(z) :- plus(1, 2, z)")
	got, err := analysis.ReorderForSafety(rule, builtins)
	require.NoError(t, err)
	require.Same(t, rule, got)
}

func TestReorderChained(t *testing.T) {
	builtins := builtin.DefaultRegistry()

	// the first builtin's output feeds the second's input
	rule := parseRule(t, "p(w) :- plus(y, z, w), plus(x, x, y), q(x), r(z)")
	got, err := analysis.ReorderForSafety(rule, builtins)
	require.NoError(t, err)
	require.Equal(t, "q(x), plus(x, x, y), r(z), plus(y, z, w)", bodyString(got))
}

func TestReorderIdempotent(t *testing.T) {
	builtins := builtin.DefaultRegistry()

	rule := parseRule(t, "p(x, y) :- not q(x, y), p(x), r(y)")
	once, err := analysis.ReorderForSafety(rule, builtins)
	require.NoError(t, err)
	twice, err := analysis.ReorderForSafety(once, builtins)
	require.NoError(t, err)
	require.Same(t, once, twice)
}
