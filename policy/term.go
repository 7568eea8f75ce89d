package policy

import (
	"fmt"
	"strconv"
)

// Term is the argument position of a literal: either a Variable or a
// Constant. Terms are immutable values; any transform returns a new Term.
type Term interface {
	isTerm()
	IsVariable() bool
	String() string
}

// Variable represents a term without a fixed value, e.g. x in p(x).
// Equality is by name only.
type Variable struct {
	Name string
}

// NewVariable creates a variable with the given name
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

func (v Variable) isTerm()          {}
func (v Variable) IsVariable() bool { return true }

// String returns the variable name
func (v Variable) String() string {
	return v.Name
}

// ConstantKind discriminates the value stored in a Constant
type ConstantKind uint8

const (
	StringConstant ConstantKind = iota
	IntegerConstant
	FloatConstant
)

// String returns the kind name as used in ordering and diagnostics
func (k ConstantKind) String() string {
	switch k {
	case StringConstant:
		return "STRING"
	case IntegerConstant:
		return "INTEGER"
	case FloatConstant:
		return "FLOAT"
	default:
		return fmt.Sprintf("ConstantKind(%d)", k)
	}
}

// Constant represents a term with a fixed value. Equality is by
// (value, kind); a string "1" and an integer 1 are distinct constants.
type Constant struct {
	Value interface{} // string, int64 or float64, matching Kind
	Kind  ConstantKind
}

// NewString creates a string constant
func NewString(s string) Constant {
	return Constant{Value: s, Kind: StringConstant}
}

// NewInteger creates an integer constant
func NewInteger(i int64) Constant {
	return Constant{Value: i, Kind: IntegerConstant}
}

// NewFloat creates a float constant
func NewFloat(f float64) Constant {
	return Constant{Value: f, Kind: FloatConstant}
}

func (c Constant) isTerm()          {}
func (c Constant) IsVariable() bool { return false }

// String returns the constant value, quoting strings
func (c Constant) String() string {
	switch c.Kind {
	case StringConstant:
		return `"` + c.Value.(string) + `"`
	case FloatConstant:
		return strconv.FormatFloat(c.Value.(float64), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", c.Value)
	}
}

// valueString returns the constant value without quoting, for hashing
// and lexicographic comparison
func (c Constant) valueString() string {
	switch v := c.Value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TermFromValue converts a native Go value into a Term. Terms pass
// through unchanged; strings, integers and floats become Constants.
// Unsupported types are a contract violation by the caller.
func TermFromValue(value interface{}) (Term, error) {
	switch v := value.(type) {
	case Term:
		return v, nil
	case string:
		return NewString(v), nil
	case int:
		return NewInteger(int64(v)), nil
	case int64:
		return NewInteger(v), nil
	case float64:
		return NewFloat(v), nil
	default:
		return nil, fmt.Errorf("no term corresponding to %v (%T)", value, value)
	}
}

// MustTerm is TermFromValue for values known to be convertible
func MustTerm(value interface{}) Term {
	t, err := TermFromValue(value)
	if err != nil {
		panic(err)
	}
	return t
}
