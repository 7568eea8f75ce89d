package analysis

import (
	"strings"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/builtin"
)

// PermittedModals lists the modal names allowed on a rule head
var PermittedModals = []string{"execute"}

// FactErrors checks a fact (ground atom) for well-formedness: it must
// be a non-negated atom, must be ground, must not reference a theory,
// and must satisfy schema consistency. Errors accumulate; the slice is
// empty for a valid fact.
func FactErrors(atom *policy.Literal, theories map[string]*policy.Schema, theory string) []error {
	var errors []error
	if !atom.IsAtom() {
		errors = append(errors, policy.ObjErrorf(atom, "fact must be an atom: %s", atom))
	}
	if !atom.IsGround() {
		errors = append(errors, policy.ObjErrorf(atom, "fact not ground: %s", atom))
	}
	errors = append(errors, LiteralSchemaConsistency(atom, theories, theory)...)
	errors = append(errors, factHasNoTheory(atom)...)
	return errors
}

func factHasNoTheory(atom *policy.Literal) []error {
	if atom.Table.Service == "" {
		return nil
	}
	return []error{policy.ObjErrorf(atom,
		"fact %s should not reference any policy: %s", atom, atom.Table.Service)}
}

// RuleHeadSafety checks that every variable in the heads also appears
// in some body literal, returning one error per unbound head variable
func RuleHeadSafety(rule *policy.Rule) []error {
	bodyVars := make(map[string]bool)
	for _, lit := range rule.Body {
		for _, name := range lit.VariableNames() {
			bodyVars[name] = true
		}
	}
	var errors []error
	for _, head := range rule.Heads {
		for _, v := range head.Variables() {
			if !bodyVars[v.Name] {
				errors = append(errors, policy.ObjErrorf(v,
					"variable %s found in head but not in body, rule %s", v, rule))
				bodyVars[v.Name] = true // one error per variable
			}
		}
	}
	return errors
}

// RuleBodySafety checks the body via safety reordering; a reorder
// failure becomes a single accumulated error
func RuleBodySafety(rule *policy.Rule, builtins *builtin.Registry) []error {
	if _, err := ReorderForSafety(rule, builtins); err != nil {
		return []error{err}
	}
	return nil
}

// RuleModalSafety checks the restrictions on modals: only permitted
// modal names on heads, at most one head when any head carries a
// modal, and no modals in the body
func RuleModalSafety(rule *policy.Rule) []error {
	var errors []error
	modalInHead := false
	for _, lit := range rule.Heads {
		if lit.Table.Modal == "" {
			continue
		}
		modalInHead = true
		if !modalPermitted(lit.Table.Modal) {
			errors = append(errors, policy.ObjErrorf(lit,
				"only 'execute' modal is allowed; found %s in head %s",
				lit.Table.Modal, lit))
		}
	}
	if modalInHead && len(rule.Heads) > 1 {
		heads := make([]string, len(rule.Heads))
		for i, lit := range rule.Heads {
			heads[i] = lit.String()
		}
		errors = append(errors, policy.ObjErrorf(rule,
			"may not have multiple rule heads with a modal: %s",
			strings.Join(heads, ", ")))
	}
	for _, lit := range rule.Body {
		if lit.Table.Modal != "" {
			errors = append(errors, policy.ObjErrorf(lit,
				"modals not allowed in the rule body; found %s in body literal %s",
				lit.Table.Modal, lit))
		}
	}
	return errors
}

func modalPermitted(modal string) bool {
	for _, permitted := range PermittedModals {
		if strings.EqualFold(modal, permitted) {
			return true
		}
	}
	return false
}

// RuleHeadHasNoTheory checks that a non-modal head declares no
// explicit service. permitHead, when non-nil, exempts heads it
// returns true for.
func RuleHeadHasNoTheory(rule *policy.Rule, permitHead func(*policy.Literal) bool) []error {
	var errors []error
	for _, head := range rule.Heads {
		if head.Table.Service != "" && head.Table.Modal == "" &&
			(permitHead == nil || !permitHead(head)) {
			errors = append(errors, policy.ObjErrorf(head,
				"non-modal rule head %s should not reference any policy: %s",
				head, rule))
		}
	}
	return errors
}

// RuleSchemaConsistency checks every body literal against the known
// schemas
func RuleSchemaConsistency(rule *policy.Rule, theories map[string]*policy.Schema, theory string) []error {
	var errors []error
	for _, lit := range rule.Body {
		errors = append(errors, LiteralSchemaConsistency(lit, theories, theory)...)
	}
	return errors
}

// LiteralSchemaConsistency checks one literal against the schema of
// its active service (its own, else the default theory). An unknown
// service or schema is not an error; an undeclared table under a
// complete schema and an arity mismatch are.
func LiteralSchemaConsistency(literal *policy.Literal, theories map[string]*policy.Schema, theory string) []error {
	if theories == nil {
		return nil
	}

	activeTheory := literal.Table.Service
	if activeTheory == "" {
		activeTheory = theory
	}
	if activeTheory == "" {
		return nil
	}

	// the theory may not have been created yet
	schema, ok := theories[activeTheory]
	if !ok || schema == nil {
		return nil
	}

	if !schema.Contains(literal.Table.Table) {
		if schema.Complete {
			return []error{policy.ObjErrorf(literal,
				"literal %s uses unknown table %s from policy %s",
				literal, literal.Table.Table, activeTheory)}
		}
		// may not have a declaration for this table's columns
		return nil
	}

	if arity, known := schema.Arity(literal.Table.Table); known && len(literal.Arguments) != arity {
		return []error{policy.ObjErrorf(literal,
			"literal %s contained %d arguments but only %d arguments are permitted",
			literal, len(literal.Arguments), arity)}
	}
	return nil
}

// RuleErrors runs every rule check and returns the accumulated
// errors; checks never short-circuit each other
func RuleErrors(rule *policy.Rule, theories map[string]*policy.Schema, theory string, builtins *builtin.Registry) []error {
	var errors []error
	errors = append(errors, RuleHeadSafety(rule)...)
	errors = append(errors, RuleBodySafety(rule, builtins)...)
	errors = append(errors, RuleSchemaConsistency(rule, theories, theory)...)
	errors = append(errors, RuleHeadHasNoTheory(rule, nil)...)
	errors = append(errors, RuleModalSafety(rule)...)
	return errors
}
