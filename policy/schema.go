package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is metadata about a collection of tables: the ordered column
// names of each table, plus whether the collection is complete. A
// complete schema declares every permitted table, so referencing an
// undeclared table is an error; an incomplete schema silently permits
// unknown tables.
type Schema struct {
	Tables   map[string][]string
	Complete bool
}

// NewSchema creates a schema over the given table->columns map. A nil
// map is treated as empty. The map is copied.
func NewSchema(tables map[string][]string, complete bool) *Schema {
	m := make(map[string][]string, len(tables))
	for name, cols := range tables {
		m[name] = append([]string(nil), cols...)
	}
	return &Schema{Tables: m, Complete: complete}
}

// Contains reports whether the schema declares the table
func (s *Schema) Contains(table string) bool {
	_, ok := s.Tables[table]
	return ok
}

// Columns returns the column names for the table, or nil if the
// table's columns are unknown
func (s *Schema) Columns(table string) []string {
	return s.Tables[table]
}

// Arity returns the number of columns for the table; ok is false when
// the table is unknown
func (s *Schema) Arity(table string) (int, bool) {
	cols, ok := s.Tables[table]
	return len(cols), ok
}

func (s *Schema) String() string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s(%s)", name, strings.Join(s.Tables[name], ", "))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
