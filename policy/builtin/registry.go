// Package builtin provides the registry of builtin tables consulted
// by the safety analyzer. A builtin is a predicate with fixed argument
// semantics: its leading NumInputs positions must be bound before the
// builtin can run, the remaining positions are outputs. The registry
// is injected into the components that need it; there is no global
// instance.
package builtin

import (
	"github.com/r-mibu/congress/policy"
)

// Builtin describes one builtin table at one arity
type Builtin struct {
	Name      string
	Arity     int
	NumInputs int
}

// Registry maps table name + arity to a Builtin
type Registry struct {
	byName map[string][]Builtin
}

// NewRegistry creates a registry holding the given builtins
func NewRegistry(builtins ...Builtin) *Registry {
	r := &Registry{byName: make(map[string][]Builtin)}
	for _, b := range builtins {
		r.Register(b)
	}
	return r
}

// Register adds or replaces the builtin at its name and arity
func (r *Registry) Register(b Builtin) {
	for i, existing := range r.byName[b.Name] {
		if existing.Arity == b.Arity {
			r.byName[b.Name][i] = b
			return
		}
	}
	r.byName[b.Name] = append(r.byName[b.Name], b)
}

// Unregister removes the builtin at the given name and arity
func (r *Registry) Unregister(name string, arity int) {
	entries := r.byName[name]
	for i, b := range entries {
		if b.Arity == arity {
			r.byName[name] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Builtin resolves a table reference at the given arity. Only
// unqualified or builtin-service tables without a modal can be
// builtins.
func (r *Registry) Builtin(table *policy.Tablename, arity int) (Builtin, bool) {
	if r == nil || table.Modal != "" {
		return Builtin{}, false
	}
	if table.Service != "" && table.Service != "builtin" {
		return Builtin{}, false
	}
	for _, b := range r.byName[table.Table] {
		if b.Arity == arity {
			return b, true
		}
	}
	return Builtin{}, false
}

// IsBuiltin reports whether the table at the given arity is a builtin
func (r *Registry) IsBuiltin(table *policy.Tablename, arity int) bool {
	_, ok := r.Builtin(table, arity)
	return ok
}

// DefaultRegistry returns a registry with the standard comparison and
// arithmetic builtins
func DefaultRegistry() *Registry {
	return NewRegistry(
		Builtin{Name: "lt", Arity: 2, NumInputs: 2},
		Builtin{Name: "lteq", Arity: 2, NumInputs: 2},
		Builtin{Name: "gt", Arity: 2, NumInputs: 2},
		Builtin{Name: "gteq", Arity: 2, NumInputs: 2},
		Builtin{Name: "equal", Arity: 2, NumInputs: 2},
		Builtin{Name: "not_equal", Arity: 2, NumInputs: 2},
		Builtin{Name: "plus", Arity: 3, NumInputs: 2},
		Builtin{Name: "minus", Arity: 3, NumInputs: 2},
		Builtin{Name: "times", Arity: 3, NumInputs: 2},
		Builtin{Name: "divides", Arity: 3, NumInputs: 2},
		Builtin{Name: "remainder", Arity: 3, NumInputs: 2},
		Builtin{Name: "max", Arity: 3, NumInputs: 2},
		Builtin{Name: "concat", Arity: 3, NumInputs: 2},
	)
}
