package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventString(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true), NewInteger(1))

	require.Equal(t, "insert[p(1)]", NewEvent(lit, true, "").String())
	require.Equal(t, "delete[p(1)] for alice", NewEvent(lit, false, "alice").String())
}

func TestEventTablename(t *testing.T) {
	rule := NewRegularRule(
		NewLiteral(ParseTablename("nova:p", true), NewVariable("x")),
		NewLiteral(ParseTablename("q", true), NewVariable("x")))

	require.Equal(t, "nova:p", NewEvent(rule, true, "").Tablename())
}

func TestFormulaIsUpdate(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true), NewInteger(1))
	require.False(t, FormulaIsUpdate(lit))
	require.True(t, FormulaIsUpdate(lit.MakeUpdate(true)))

	rule := NewRegularRule(
		NewLiteral(ParseTablename("p", true), NewVariable("x")),
		NewLiteral(ParseTablename("q", true), NewVariable("x")))
	require.False(t, FormulaIsUpdate(rule))
	require.True(t, FormulaIsUpdate(rule.MakeUpdate(false)))
}
