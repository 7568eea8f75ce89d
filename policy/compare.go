package policy

import (
	"strings"
)

// Sort ranks defining the total order across the policy value types:
// Variable < Constant < Fact < Tablename < Literal < Rule.
const (
	rankVariable = 1
	rankConstant = 2
	rankFact     = 3
	rankTable    = 4
	rankLiteral  = 5
	rankRule     = 6
)

func sortRank(x interface{}) int {
	switch x.(type) {
	case Variable:
		return rankVariable
	case Constant:
		return rankConstant
	case *Fact:
		return rankFact
	case *Tablename:
		return rankTable
	case *Literal:
		return rankLiteral
	case *Rule:
		return rankRule
	default:
		return 0
	}
}

// Compare compares any two policy values and returns:
//
//	-1 if left < right
//	 0 if left == right
//	 1 if left > right
//
// Values of different types are ordered by rank (Variable < Constant <
// Fact < Tablename < Literal < Rule); within a type, ties break
// lexicographically on the defining fields.
func Compare(left, right interface{}) int {
	lr, rr := sortRank(left), sortRank(right)
	if lr != rr {
		return compareInts(lr, rr)
	}
	switch l := left.(type) {
	case Variable:
		return strings.Compare(l.Name, right.(Variable).Name)
	case Constant:
		return compareConstants(l, right.(Constant))
	case *Fact:
		return l.Compare(right.(*Fact))
	case *Tablename:
		return l.Compare(right.(*Tablename))
	case *Literal:
		return l.Compare(right.(*Literal))
	case *Rule:
		return l.Compare(right.(*Rule))
	}
	return 0
}

// CompareTerms compares two Terms; Variables rank before Constants
func CompareTerms(left, right Term) int {
	return Compare(left, right)
}

func compareConstants(l, r Constant) int {
	// value first, then kind, matching the declared tie-break order
	if c := strings.Compare(l.valueString(), r.valueString()); c != 0 {
		return c
	}
	return compareInts(int(l.Kind), int(r.Kind))
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}
