package policy

// Binding is a substitution source for Plug. Resolve returns the
// replacement for a term, or ok=false to leave the term unchanged.
// Implementations must be pure: resolving the same term twice returns
// the same value.
type Binding interface {
	Resolve(t Term) (Term, bool)
}

// MapBinding is a literal substitution keyed by Term. Only terms that
// appear as keys are replaced; in practice the domain is restricted to
// Variables occurring in the plugged formula.
type MapBinding map[Term]Term

// Resolve looks the term up in the map
func (b MapBinding) Resolve(t Term) (Term, bool) {
	v, ok := b[t]
	return v, ok
}

// BindingFunc adapts a computed/environment-based substitution
type BindingFunc func(t Term) (Term, bool)

// Resolve applies the function
func (f BindingFunc) Resolve(t Term) (Term, bool) {
	return f(t)
}
