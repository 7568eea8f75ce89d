package graph

import "fmt"

// ChangeKind discriminates the primitive operations in a change log
type ChangeKind uint8

const (
	ChangeNode ChangeKind = iota
	ChangeEdge
	ChangeModal
)

// Change is one primitive graph operation recorded while applying a
// formula delta. A linear log of Changes captures the exact delta so
// UndoChanges can reverse it without recomputing from scratch.
type Change struct {
	Kind   ChangeKind
	Node   string      // ChangeNode
	Edge   Edge        // ChangeEdge
	Modals *ModalIndex // ChangeModal
	Insert bool
}

func (c Change) String() string {
	op := "delete"
	if c.Insert {
		op = "insert"
	}
	switch c.Kind {
	case ChangeNode:
		return fmt.Sprintf("%s node %s", op, c.Node)
	case ChangeEdge:
		return fmt.Sprintf("%s edge %s -> %s (negated=%t)",
			op, c.Edge.Source, c.Edge.Dest, c.Edge.Negated)
	case ChangeModal:
		return fmt.Sprintf("%s modals %v", op, c.Modals.Modals())
	default:
		return fmt.Sprintf("unknown change kind %d", c.Kind)
	}
}
