package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/graph"
)

// FindSubpolicy returns the minimal subset of rules that defines the
// output tables under dependency constraints. A chosen rule's head
// table is needed by some output table, does not depend on any
// prohibited table (unless that dependency is itself an output), and
// depends on at least one required table.
//
// Dependency is transitive through rule bodies: table R depends on
// table T if T occurs in the body of a rule whose head is R, or in
// the body of a rule R depends on.
func FindSubpolicy(rules []*policy.Rule, requiredTables, prohibitedTables, outputTables []string, logger *zap.Logger) []*policy.Rule {
	if logger == nil {
		logger = zap.NewNop()
	}

	formulas := make([]policy.Formula, len(rules))
	for i, rule := range rules {
		formulas[i] = rule
	}
	depgraph := graph.NewRuleDependencyGraph(formulas, graph.Options{Logger: logger})

	// table name -> rules defining it
	definitions := make(map[string]map[*policy.Rule]bool)
	for _, rule := range rules {
		for _, head := range rule.Heads {
			table := head.Table.Table
			if definitions[table] == nil {
				definitions[table] = make(map[*policy.Rule]bool)
			}
			definitions[table][rule] = true
		}
	}
	logger.Debug("built subpolicy structures",
		zap.Int("rules", len(rules)),
		zap.Int("tables", len(definitions)))

	// prune in place the rules defining an output table, deleting a
	// rejected rule's graph contribution so later reachability
	// reflects the removal
	filterOutputDefinitions := func(rulePermitted func(*policy.Rule) bool) {
		for _, outputTable := range outputTables {
			defining, ok := definitions[outputTable]
			if !ok {
				continue
			}
			kept := make(map[*policy.Rule]bool)
			for rule := range defining {
				if rulePermitted(rule) {
					kept[rule] = true
				} else {
					depgraph.FormulaDelete(rule, "")
				}
			}
			definitions[outputTable] = kept
		}
	}

	outputs := nameSet(outputTables)

	// remove rules dependent on prohibited tables, outputs excepted
	prohibited := make(map[string]bool)
	for _, table := range depgraph.FindDependencies(prohibitedTables) {
		if !outputs[table] {
			prohibited[table] = true
		}
	}
	filterOutputDefinitions(func(rule *policy.Rule) bool {
		for _, lit := range rule.Body {
			if prohibited[lit.Table.Table] {
				return false
			}
		}
		return true
	})

	// remove rules for tables not dependent on a required table
	required := nameSet(depgraph.FindDependencies(requiredTables))
	filterOutputDefinitions(func(rule *policy.Rule) bool {
		for _, lit := range rule.Body {
			if required[lit.Table.Table] {
				return true
			}
		}
		return false
	})

	// collect the surviving rules for tables that help define outputs
	subpolicy := make(map[*policy.Rule]bool)
	for _, table := range depgraph.FindDefinitions(outputTables) {
		for rule := range definitions[table] {
			subpolicy[rule] = true
		}
	}

	result := make([]*policy.Rule, 0, len(subpolicy))
	for rule := range subpolicy {
		result = append(result, rule)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Compare(result[j]) < 0
	})
	logger.Debug("extracted subpolicy", zap.Int("rules", len(result)))
	return result
}
