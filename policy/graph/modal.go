package graph

import "sort"

// ModalIndex is a refcounted multiset from modal name to the tables
// that appear with that modal in some rule head. Signed merges let the
// dependency graph apply and reverse formula deltas without rescans.
type ModalIndex struct {
	index map[string]map[string]int
}

// NewModalIndex creates an empty index
func NewModalIndex() *ModalIndex {
	return &ModalIndex{index: make(map[string]map[string]int)}
}

// Add increments the count for table under modal
func (m *ModalIndex) Add(modal, table string) {
	m.addCount(modal, table, 1)
}

// Remove decrements the count for table under modal, dropping the
// entry when it reaches zero
func (m *ModalIndex) Remove(modal, table string) {
	m.addCount(modal, table, -1)
}

func (m *ModalIndex) addCount(modal, table string, delta int) {
	tables := m.index[modal]
	if tables == nil {
		tables = make(map[string]int)
		m.index[modal] = tables
	}
	tables[table] += delta
	if tables[table] == 0 {
		delete(tables, table)
		if len(tables) == 0 {
			delete(m.index, modal)
		}
	}
}

// Merge adds every count in other to the receiver
func (m *ModalIndex) Merge(other *ModalIndex) {
	for modal, tables := range other.index {
		for table, count := range tables {
			m.addCount(modal, table, count)
		}
	}
}

// Subtract removes every count in other from the receiver
func (m *ModalIndex) Subtract(other *ModalIndex) {
	for modal, tables := range other.index {
		for table, count := range tables {
			m.addCount(modal, table, -count)
		}
	}
}

// Tables returns the sorted tables recorded under modal
func (m *ModalIndex) Tables(modal string) []string {
	tables := make([]string, 0, len(m.index[modal]))
	for table := range m.index[modal] {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// Modals returns the sorted modal names with at least one table
func (m *ModalIndex) Modals() []string {
	modals := make([]string, 0, len(m.index))
	for modal := range m.index {
		modals = append(modals, modal)
	}
	sort.Strings(modals)
	return modals
}

// Empty reports whether the index records nothing
func (m *ModalIndex) Empty() bool {
	return len(m.index) == 0
}

// Copy returns a deep copy
func (m *ModalIndex) Copy() *ModalIndex {
	n := NewModalIndex()
	n.Merge(m)
	return n
}
