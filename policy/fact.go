package policy

import "strings"

// Fact is a ground literal stored compactly: a table name plus a
// fixed tuple of constant values. Semantically it is a zero-body rule,
// but without the variable/negation overhead of a Literal, which
// matters when a service exports millions of rows.
type Fact struct {
	Table  string
	Values []Constant
}

// NewFact creates a fact for the given table and values
func NewFact(table string, values []Constant) *Fact {
	return &Fact{Table: table, Values: values}
}

// FactFromTuple creates a fact from native values. Variables are not
// permitted; facts are ground by construction.
func FactFromTuple(table string, row ...interface{}) (*Fact, error) {
	values := make([]Constant, len(row))
	for i, v := range row {
		t, err := TermFromValue(v)
		if err != nil {
			return nil, err
		}
		c, ok := t.(Constant)
		if !ok {
			return nil, ObjErrorf(t, "fact for table %s contains non-constant %s", table, t)
		}
		values[i] = c
	}
	return NewFact(table, values), nil
}

// Literal expands the fact into an equivalent ground atom
func (f *Fact) Literal() *Literal {
	args := make([]Term, len(f.Values))
	for i, v := range f.Values {
		args[i] = v
	}
	return NewLiteral(ParseTablename(f.Table, true), args...)
}

// Equal reports equality of table and value tuple
func (f *Fact) Equal(other *Fact) bool {
	if other == nil || f.Table != other.Table || len(f.Values) != len(other.Values) {
		return false
	}
	for i := range f.Values {
		if compareConstants(f.Values[i], other.Values[i]) != 0 {
			return false
		}
	}
	return true
}

// Compare orders facts by table, then value tuple
func (f *Fact) Compare(other *Fact) int {
	if c := strings.Compare(f.Table, other.Table); c != 0 {
		return c
	}
	if c := compareInts(len(f.Values), len(other.Values)); c != 0 {
		return c
	}
	for i := range f.Values {
		if c := compareConstants(f.Values[i], other.Values[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (f *Fact) String() string {
	vals := make([]string, len(f.Values))
	for i, v := range f.Values {
		vals[i] = v.String()
	}
	return f.Table + "(" + strings.Join(vals, ", ") + ")"
}
