package policy

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Literal represents a possibly negated atomic statement, e.g.
// p(a, 17, b) or not q(x). A Literal with Negated false is an atom.
//
// Literals are immutable once constructed; transforms return copies.
// The ID/Name/Comment/Original fields are debug metadata and take no
// part in equality, ordering or hashing. DropTheory is the single
// documented destructive operation.
type Literal struct {
	Table     *Tablename
	Arguments []Term
	Negated   bool

	ID       string
	RuleName string
	Comment  string
	Original string

	hash uint64
}

// NewLiteral creates a positive literal over the given table
func NewLiteral(table *Tablename, args ...Term) *Literal {
	return &Literal{Table: table, Arguments: args}
}

// NewNegatedLiteral creates a negated literal over the given table
func NewNegatedLiteral(table *Tablename, args ...Term) *Literal {
	return &Literal{Table: table, Arguments: args, Negated: true}
}

// LiteralFromTuple creates a positive literal from a table name and a
// row of native values, e.g. ("p", 17, "string", 3.14)
func LiteralFromTuple(table string, row ...interface{}) (*Literal, error) {
	args := make([]Term, len(row))
	for i, v := range row {
		t, err := TermFromValue(v)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return NewLiteral(ParseTablename(table, true), args...), nil
}

// clone returns a shallow copy with the hash cleared, for transforms
// that change a defining field before publishing the copy
func (l *Literal) clone() *Literal {
	n := *l
	n.hash = 0
	return &n
}

// Copy returns a structural copy sharing the table and arguments
func (l *Literal) Copy() *Literal {
	n := *l
	return &n
}

func (l *Literal) isFormula() {}

// IsNegated reports whether the literal is negated
func (l *Literal) IsNegated() bool {
	return l.Negated
}

// IsAtom reports whether the literal is a non-negated atomic formula
func (l *Literal) IsAtom() bool {
	return !l.Negated
}

// IsGround reports whether no argument is a variable
func (l *Literal) IsGround() bool {
	for _, arg := range l.Arguments {
		if arg.IsVariable() {
			return false
		}
	}
	return true
}

// Variables returns the variable arguments, deduplicated, in order of
// first appearance
func (l *Literal) Variables() []Variable {
	var vars []Variable
	seen := make(map[string]bool)
	for _, arg := range l.Arguments {
		if v, ok := arg.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			vars = append(vars, v)
		}
	}
	return vars
}

// VariableNames returns the names of the variable arguments,
// deduplicated, in order of first appearance
func (l *Literal) VariableNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, arg := range l.Arguments {
		if v, ok := arg.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	}
	return names
}

// ArgumentNames returns the printed form of every argument in order
func (l *Literal) ArgumentNames() []string {
	names := make([]string, len(l.Arguments))
	for i, arg := range l.Arguments {
		names[i] = arg.String()
	}
	return names
}

// Plug substitutes arguments per the binding and returns a new
// literal. Arguments the binding does not resolve are left as-is. The
// receiver and its argument list are never modified.
func (l *Literal) Plug(binding Binding) *Literal {
	args := make([]Term, len(l.Arguments))
	for i, arg := range l.Arguments {
		if v, ok := binding.Resolve(arg); ok {
			args[i] = v
		} else {
			args[i] = arg
		}
	}
	n := l.clone()
	n.Arguments = args
	return n
}

// Complement returns a copy with the negation flipped
func (l *Literal) Complement() *Literal {
	n := l.clone()
	n.Negated = !l.Negated
	return n
}

// MakePositive returns the receiver unchanged if already positive,
// else a positive copy
func (l *Literal) MakePositive() *Literal {
	if !l.Negated {
		return l
	}
	n := l.clone()
	n.Negated = false
	return n
}

// InvertUpdate flips the table's +/- update suffix, copying on change
func (l *Literal) InvertUpdate() *Literal {
	return l.modifyTable((*Tablename).InvertUpdate)
}

// DropUpdate removes the table's update suffix, copying on change
func (l *Literal) DropUpdate() *Literal {
	return l.modifyTable((*Tablename).DropUpdate)
}

// MakeUpdate turns the table into a +/- update, copying on change
func (l *Literal) MakeUpdate(isInsert bool) *Literal {
	return l.modifyTable(func(t *Tablename) (*Tablename, bool) {
		return t.MakeUpdate(isInsert)
	})
}

func (l *Literal) modifyTable(f func(*Tablename) (*Tablename, bool)) *Literal {
	table, changed := f(l.Table)
	if !changed {
		return l
	}
	n := l.clone()
	n.Table = table
	return n
}

// IsUpdate reports whether the table carries an update suffix
func (l *Literal) IsUpdate() bool {
	return l.Table.IsUpdate()
}

// Tablename returns the table's name using defaultService for a
// missing service
func (l *Literal) Tablename(defaultService string) string {
	return l.Table.Name(defaultService)
}

// TheoryName returns the service the literal references, if any
func (l *Literal) TheoryName() string {
	return l.Table.Service
}

// DropTheory destructively clears the service on the literal's table.
// Only for irreversible theory stripping before storage; the table is
// mutated in place, so it must not be shared with other formulas.
func (l *Literal) DropTheory() *Literal {
	l.hash = 0
	l.Table.DropService()
	return l
}

// Equal reports structural equality: table, negation and arguments
func (l *Literal) Equal(other *Literal) bool {
	if other == nil ||
		!l.Table.Equal(other.Table) ||
		l.Negated != other.Negated ||
		len(l.Arguments) != len(other.Arguments) {
		return false
	}
	for i := range l.Arguments {
		if Compare(l.Arguments[i], other.Arguments[i]) != 0 {
			return false
		}
	}
	return true
}

// Compare orders literals by table, negation, arity, then arguments
func (l *Literal) Compare(other *Literal) int {
	if c := l.Table.Compare(other.Table); c != 0 {
		return c
	}
	if c := compareBools(l.Negated, other.Negated); c != 0 {
		return c
	}
	if c := compareInts(len(l.Arguments), len(other.Arguments)); c != 0 {
		return c
	}
	for i := range l.Arguments {
		if c := Compare(l.Arguments[i], other.Arguments[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Hash returns the memoized structural hash, consistent with Equal
func (l *Literal) Hash() uint64 {
	if l.hash == 0 {
		var d xxhash.Digest
		d.Reset()
		d.WriteString("Literal\x00")
		writeUint64(&d, l.Table.Hash())
		for _, arg := range l.Arguments {
			d.WriteString(arg.String())
			d.WriteString("\x00")
		}
		if l.Negated {
			d.WriteString("not")
		}
		l.hash = d.Sum64()
	}
	return l.hash
}

// String renders the literal, e.g. not execute[nova:disconnect(x, 7)]
func (l *Literal) String() string {
	s := l.Tablename("") + "(" + strings.Join(l.ArgumentNames(), ", ") + ")"
	if l.Table.Modal != "" {
		s = l.Table.Modal + "[" + s + "]"
	}
	if l.Negated {
		s = "not " + s
	}
	return s
}

func writeUint64(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
	d.Write(buf[:])
}
