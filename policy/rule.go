package policy

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Rule represents a rule such as p(x) :- q(x), not r(x). Every head
// must be an atom (non-negated); body literals may be negated.
//
// A rule carries a stable opaque ID assigned at construction, used for
// graph and provenance bookkeeping. Structural equality, ordering and
// hashing ignore the ID and compare the sorted multisets of heads and
// body literals: head and body order are evaluation-order detail, not
// rule identity.
//
// Reasoning algorithms operate on single-head ("regular") rules;
// multi-head rules are a surface form reduced to regular rules before
// reasoning, but the type supports both.
type Rule struct {
	Heads []*Literal
	Body  []*Literal

	ID       uuid.UUID
	RuleName string
	Comment  string
	Original string

	hash uint64
}

// NewRule creates a rule with the given heads and body and a fresh ID.
// Heads must be non-empty.
func NewRule(heads []*Literal, body []*Literal) *Rule {
	return &Rule{Heads: heads, Body: body, ID: uuid.New()}
}

// NewRegularRule creates a single-head rule
func NewRegularRule(head *Literal, body ...*Literal) *Rule {
	return NewRule([]*Literal{head}, body)
}

func (r *Rule) isFormula() {}

// Head returns the first head; reasoning algorithms that require a
// regular rule use only this head
func (r *Rule) Head() *Literal {
	return r.Heads[0]
}

// IsRegular reports whether the rule has exactly one head
func (r *Rule) IsRegular() bool {
	return len(r.Heads) == 1
}

// clone returns a shallow copy with the hash cleared but the same ID
func (r *Rule) clone() *Rule {
	n := *r
	n.hash = 0
	return &n
}

// Copy returns a structural copy keeping the same ID
func (r *Rule) Copy() *Rule {
	n := *r
	return &n
}

// Tablename returns the head's table name under the default theory
func (r *Rule) Tablename(theory string) string {
	return r.Head().Tablename(theory)
}

// TheoryName returns the service the head references, if any
func (r *Rule) TheoryName() string {
	return r.Head().TheoryName()
}

// Tablenames returns every table name occurring in the rule,
// deduplicated, using theory as the default service. Heads are
// excluded when bodyOnly is set.
func (r *Rule) Tablenames(theory string, bodyOnly bool) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(lit *Literal) {
		name := lit.Tablename(theory)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if !bodyOnly {
		for _, lit := range r.Heads {
			add(lit)
		}
	}
	for _, lit := range r.Body {
		add(lit)
	}
	return names
}

// Variables returns all variables in heads and body, deduplicated
func (r *Rule) Variables() []Variable {
	var vars []Variable
	seen := make(map[string]bool)
	for _, lit := range append(append([]*Literal{}, r.Heads...), r.Body...) {
		for _, v := range lit.Variables() {
			if !seen[v.Name] {
				seen[v.Name] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

// VariableNames returns the names of all variables in heads and body
func (r *Rule) VariableNames() []string {
	vars := r.Variables()
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

// Plug substitutes per the binding in every head and body literal and
// returns a new rule with the same ID
func (r *Rule) Plug(binding Binding) *Rule {
	n := r.clone()
	n.Heads = r.PlugHeads(binding)
	n.Body = r.PlugBody(binding)
	return n
}

// PlugBody substitutes per the binding in the body literals
func (r *Rule) PlugBody(binding Binding) []*Literal {
	body := make([]*Literal, len(r.Body))
	for i, lit := range r.Body {
		body[i] = lit.Plug(binding)
	}
	return body
}

// PlugHeads substitutes per the binding in the head literals
func (r *Rule) PlugHeads(binding Binding) []*Literal {
	heads := make([]*Literal, len(r.Heads))
	for i, lit := range r.Heads {
		heads[i] = lit.Plug(binding)
	}
	return heads
}

// InvertUpdate flips the update suffix on every head, copying
func (r *Rule) InvertUpdate() *Rule {
	return r.modifyHeads((*Literal).InvertUpdate)
}

// DropUpdate removes the update suffix from every head, copying
func (r *Rule) DropUpdate() *Rule {
	return r.modifyHeads((*Literal).DropUpdate)
}

// MakeUpdate turns every head into a +/- update, copying
func (r *Rule) MakeUpdate(isInsert bool) *Rule {
	return r.modifyHeads(func(l *Literal) *Literal {
		return l.MakeUpdate(isInsert)
	})
}

func (r *Rule) modifyHeads(f func(*Literal) *Literal) *Rule {
	n := r.clone()
	heads := make([]*Literal, len(r.Heads))
	for i, lit := range r.Heads {
		heads[i] = f(lit)
	}
	n.Heads = heads
	return n
}

// IsUpdate reports whether the head's table carries an update suffix
func (r *Rule) IsUpdate() bool {
	return r.Head().IsUpdate()
}

// DropTheory destructively clears the service in every head
func (r *Rule) DropTheory() *Rule {
	for _, head := range r.Heads {
		head.DropTheory()
	}
	r.hash = 0
	return r
}

// Equal reports order-insensitive structural equality of the head and
// body multisets
func (r *Rule) Equal(other *Rule) bool {
	if other == nil ||
		len(r.Heads) != len(other.Heads) ||
		len(r.Body) != len(other.Body) {
		return false
	}
	x, y := sortedLiterals(r.Heads), sortedLiterals(other.Heads)
	for i := range x {
		if !x[i].Equal(y[i]) {
			return false
		}
	}
	x, y = sortedLiterals(r.Body), sortedLiterals(other.Body)
	for i := range x {
		if !x[i].Equal(y[i]) {
			return false
		}
	}
	return true
}

// Compare orders rules by head count, body count, then the sorted head
// and body multisets
func (r *Rule) Compare(other *Rule) int {
	if c := compareInts(len(r.Heads), len(other.Heads)); c != 0 {
		return c
	}
	if c := compareInts(len(r.Body), len(other.Body)); c != 0 {
		return c
	}
	x, y := sortedLiterals(r.Heads), sortedLiterals(other.Heads)
	for i := range x {
		if c := x[i].Compare(y[i]); c != 0 {
			return c
		}
	}
	x, y = sortedLiterals(r.Body), sortedLiterals(other.Body)
	for i := range x {
		if c := x[i].Compare(y[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Hash returns the memoized hash over the sorted head and body
// multisets, consistent with Equal
func (r *Rule) Hash() uint64 {
	if r.hash == 0 {
		var d xxhash.Digest
		d.Reset()
		d.WriteString("Rule\x00")
		for _, lit := range sortedLiterals(r.Heads) {
			writeUint64(&d, lit.Hash())
		}
		d.WriteString("\x00")
		for _, lit := range sortedLiterals(r.Body) {
			writeUint64(&d, lit.Hash())
		}
		r.hash = d.Sum64()
	}
	return r.hash
}

// String renders the rule, e.g. p(x) :- q(x), not r(x)
func (r *Rule) String() string {
	heads := make([]string, len(r.Heads))
	for i, lit := range r.Heads {
		heads[i] = lit.String()
	}
	if len(r.Body) == 0 {
		return strings.Join(heads, " ")
	}
	body := make([]string, len(r.Body))
	for i, lit := range r.Body {
		body[i] = lit.String()
	}
	return strings.Join(heads, ", ") + " :- " + strings.Join(body, ", ")
}

// PrettyString renders the rule with one body literal per line
func (r *Rule) PrettyString() string {
	if len(r.Body) == 0 {
		return r.String()
	}
	heads := make([]string, len(r.Heads))
	for i, lit := range r.Heads {
		heads[i] = lit.String()
	}
	body := make([]string, len(r.Body))
	for i, lit := range r.Body {
		body[i] = lit.String()
	}
	return strings.Join(heads, ", ") + " :- \n    " + strings.Join(body, ",\n    ")
}

func sortedLiterals(lits []*Literal) []*Literal {
	sorted := append([]*Literal(nil), lits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}
