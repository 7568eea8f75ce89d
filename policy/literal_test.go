package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLiteral(t *testing.T, table string, row ...interface{}) *Literal {
	t.Helper()
	lit, err := LiteralFromTuple(table, row...)
	require.NoError(t, err)
	return lit
}

func TestLiteralFromTuple(t *testing.T) {
	lit := mustLiteral(t, "nova:servers", "vm1", int64(2), 0.5)
	require.Equal(t, "nova", lit.Table.Service)
	require.Equal(t, "servers", lit.Table.Table)
	require.Len(t, lit.Arguments, 3)
	require.True(t, lit.IsGround())
	require.True(t, lit.IsAtom())
}

func TestLiteralVariables(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true),
		NewVariable("x"), NewString("c"), NewVariable("y"), NewVariable("x"))

	require.False(t, lit.IsGround())
	require.Equal(t, []string{"x", "y"}, lit.VariableNames())
	require.Equal(t, []Variable{NewVariable("x"), NewVariable("y")}, lit.Variables())
	require.Equal(t, []string{"x", `"c"`, "y", "x"}, lit.ArgumentNames())
}

func TestLiteralPlug(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true), NewVariable("x"), NewVariable("y"))

	binding := MapBinding{
		Variable{Name: "x"}: NewInteger(1),
	}
	plugged := lit.Plug(binding)
	require.Equal(t, "p(1, y)", plugged.String())

	// the original is untouched
	require.Equal(t, "p(x, y)", lit.String())
	require.True(t, plugged.Hash() != lit.Hash())
}

func TestLiteralPlugFunc(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true), NewVariable("x"), NewVariable("y"))

	plugged := lit.Plug(BindingFunc(func(term Term) (Term, bool) {
		if v, ok := term.(Variable); ok && v.Name == "y" {
			return NewString("bound"), true
		}
		return nil, false
	}))
	require.Equal(t, `p(x, "bound")`, plugged.String())
}

func TestComplementAndMakePositive(t *testing.T) {
	lit := NewLiteral(ParseTablename("p", true), NewVariable("x"))

	neg := lit.Complement()
	require.True(t, neg.IsNegated())
	require.False(t, lit.IsNegated())
	require.True(t, neg.Complement().Equal(lit))

	// MakePositive of a positive literal returns the same pointer
	require.Same(t, lit, lit.MakePositive())
	require.True(t, neg.MakePositive().Equal(lit))
}

func TestLiteralUpdates(t *testing.T) {
	lit := NewLiteral(ParseTablename("nova:servers", true), NewVariable("x"))

	up := lit.MakeUpdate(true)
	require.Equal(t, "servers+", up.Table.Table)
	require.True(t, up.IsUpdate())

	down := up.InvertUpdate()
	require.Equal(t, "servers-", down.Table.Table)

	require.True(t, down.DropUpdate().Equal(lit))

	// non-updates pass through unchanged
	require.Same(t, lit, lit.InvertUpdate())
	require.Same(t, lit, lit.DropUpdate())
}

func TestLiteralEqualIgnoresMetadata(t *testing.T) {
	a := NewLiteral(ParseTablename("p", true), NewInteger(1))
	b := NewLiteral(ParseTablename("p", true), NewInteger(1))
	b.ID = "id-7"
	b.Comment = "from somewhere"

	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.Zero(t, a.Compare(b))
}

func TestLiteralCompare(t *testing.T) {
	p1 := NewLiteral(ParseTablename("p", true), NewInteger(1))
	p2 := NewLiteral(ParseTablename("p", true), NewInteger(2))
	notP1 := NewNegatedLiteral(ParseTablename("p", true), NewInteger(1))
	q := NewLiteral(ParseTablename("q", true), NewInteger(1))

	require.Equal(t, -1, p1.Compare(p2))
	require.Equal(t, -1, p1.Compare(notP1)) // positive before negative
	require.Equal(t, -1, p1.Compare(q))
	require.Equal(t, 1, q.Compare(p1))
}

func TestLiteralHashDistinguishesNegation(t *testing.T) {
	pos := NewLiteral(ParseTablename("p", true), NewInteger(1))
	neg := NewNegatedLiteral(ParseTablename("p", true), NewInteger(1))
	require.NotEqual(t, pos.Hash(), neg.Hash())
	require.False(t, pos.Equal(neg))
}

func TestLiteralString(t *testing.T) {
	lit := NewNegatedLiteral(NewTablename("disconnect", "nova", "execute"),
		NewVariable("x"), NewInteger(7))
	require.Equal(t, "not execute[nova:disconnect(x, 7)]", lit.String())
}

func TestLiteralDropTheory(t *testing.T) {
	lit := NewLiteral(ParseTablename("nova:servers", true), NewVariable("x"))
	require.Equal(t, "nova", lit.TheoryName())

	lit.DropTheory()
	require.Equal(t, "", lit.TheoryName())
	require.Equal(t, "servers(x)", lit.String())
}
