package policy

// Formula is the closed variant over policy sentences: a *Literal
// (atom or negated literal) or a *Rule. Consumers switch exhaustively
// on the two cases rather than probing with predicate helpers.
type Formula interface {
	isFormula()
	String() string
}

// FormulasToString renders an iterable of formulas as a single string
// the parser will read back as the same iterable
func FormulasToString(formulas []Formula) string {
	if formulas == nil {
		return "None"
	}
	s := ""
	for i, f := range formulas {
		if i > 0 {
			s += " "
		}
		s += f.String()
	}
	return s
}

// FormulaIsUpdate reports whether the formula defines an update
// (insert/delete delta) table
func FormulaIsUpdate(f Formula) bool {
	switch x := f.(type) {
	case *Literal:
		return x.IsUpdate()
	case *Rule:
		return x.IsRegular() && x.IsUpdate()
	default:
		return false
	}
}
