package policy

import "fmt"

// Event represents a change to a formula: an insert or delete,
// optionally targeted at a named theory. Batches of events drive
// incremental dependency-graph updates.
type Event struct {
	Formula Formula
	Insert  bool
	Target  string
}

// NewEvent creates an insert or delete event for the formula
func NewEvent(formula Formula, insert bool, target string) Event {
	return Event{Formula: formula, Insert: insert, Target: target}
}

// Tablename returns the table the event's formula defines
func (e Event) Tablename() string {
	switch f := e.Formula.(type) {
	case *Literal:
		return f.Tablename("")
	case *Rule:
		return f.Tablename("")
	default:
		return ""
	}
}

func (e Event) String() string {
	text := "delete"
	if e.Insert {
		text = "insert"
	}
	target := ""
	if e.Target != "" {
		target = fmt.Sprintf(" for %s", e.Target)
	}
	return fmt.Sprintf("%s[%s]%s", text, e.Formula, target)
}
