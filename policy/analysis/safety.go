// Package analysis holds the semantic checks run over parsed policy
// formulas: safety reordering, the fact/rule validation rule set, and
// dependency-driven subpolicy extraction.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/builtin"
)

// ReorderForSafety permutes the rule's body so that left-to-right
// evaluation binds every variable before it is required: all variables
// of a negated literal, and the variables among a builtin's declared
// input positions, must be bound by a preceding positive literal.
//
// Reordering is stable: a rule whose body is already safe is returned
// unchanged (same pointer), and literals that must move are moved as
// little as possible. On success the returned rule shares the
// receiver's ID; the input rule is never modified. A nil registry
// means no builtins.
func ReorderForSafety(rule *policy.Rule, builtins *builtin.Registry) (*policy.Rule, error) {
	safeVars := make(map[string]bool)
	var unsafeLiterals []*policy.Literal
	unsafeVariables := make(map[*policy.Literal]map[string]bool)
	newBody := make([]*policy.Literal, 0, len(rule.Body))

	makeSafe := func(lit *policy.Literal) {
		for _, name := range lit.VariableNames() {
			safeVars[name] = true
		}
		newBody = append(newBody, lit)
	}

	// append lit, then sweep the pending literals to a fixed point,
	// promoting at most one per pass to minimize reordering churn
	makeSafePlus := func(lit *policy.Literal) {
		makeSafe(lit)
		for foundSafe := true; foundSafe; {
			foundSafe = false
			for i, pending := range unsafeLiterals {
				if subset(unsafeVariables[pending], safeVars) {
					unsafeLiterals = append(unsafeLiterals[:i], unsafeLiterals[i+1:]...)
					delete(unsafeVariables, pending)
					makeSafe(pending)
					foundSafe = true
					break
				}
			}
		}
	}

	for _, lit := range rule.Body {
		var targetVars map[string]bool
		if lit.IsNegated() {
			targetVars = nameSet(lit.VariableNames())
		} else if b, ok := builtins.Builtin(lit.Table, len(lit.Arguments)); ok {
			targetVars = make(map[string]bool)
			for _, arg := range lit.Arguments[:b.NumInputs] {
				if v, isVar := arg.(policy.Variable); isVar {
					targetVars[v.Name] = true
				}
			}
		} else {
			// neither a builtin nor negated: unconditionally safe
			makeSafePlus(lit)
			continue
		}

		unbound := make(map[string]bool)
		for name := range targetVars {
			if !safeVars[name] {
				unbound[name] = true
			}
		}
		if len(unbound) > 0 {
			unsafeLiterals = append(unsafeLiterals, lit)
			unsafeVariables[lit] = unbound
		} else {
			makeSafePlus(lit)
		}
	}

	if len(unsafeLiterals) > 0 {
		msgs := make([]string, len(unsafeLiterals))
		for i, lit := range unsafeLiterals {
			msgs[i] = fmt.Sprintf("%s (vars %s)", lit, nameList(unsafeVariables[lit]))
		}
		return nil, policy.ObjErrorf(rule,
			"could not reorder rule %s; unsafe literals: %s",
			rule, strings.Join(msgs, "; "))
	}

	if sameOrder(rule.Body, newBody) {
		return rule, nil
	}
	reordered := rule.Copy()
	reordered.Body = newBody
	return reordered, nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func nameList(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func subset(sub, super map[string]bool) bool {
	for name := range sub {
		if !super[name] {
			return false
		}
	}
	return true
}

func sameOrder(a, b []*policy.Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
