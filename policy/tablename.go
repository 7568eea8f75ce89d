package policy

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tablename is the qualified identity of a table: an optional service
// (the policy/theory the table belongs to), an optional modal
// annotation, and the table name proper. The empty string denotes an
// absent service or modal.
//
// Tablenames are immutable once constructed; every transform returns a
// structurally new value. DropService is the single documented
// destructive exception, used only when theory stripping is intended.
type Tablename struct {
	Table   string
	Service string
	Modal   string

	hash uint64
}

// NewTablename creates a tablename with explicit parts, no parsing
func NewTablename(table, service, modal string) *Tablename {
	return &Tablename{Table: table, Service: service, Modal: modal}
}

// ParseTablename creates a tablename from a possibly structured name.
// When useModules is true and no explicit service is known, the name is
// split on its first colon: "nova:servers:cpu" has service "nova" and
// table "servers:cpu".
func ParseTablename(table string, useModules bool) *Tablename {
	if !useModules {
		return &Tablename{Table: table}
	}
	service, name := ParseServiceTable(table)
	return &Tablename{Table: name, Service: service}
}

// ParseServiceTable splits a structured name into (service, table) on
// the first colon. A name without a colon has an empty service.
func ParseServiceTable(tablename string) (string, string) {
	pieces := strings.SplitN(tablename, ":", 2)
	if len(pieces) == 1 {
		return "", pieces[0]
	}
	return pieces[0], pieces[1]
}

// BuildServiceTable returns the string service:table
func BuildServiceTable(service, table string) string {
	return service + ":" + table
}

// Copy returns a structural copy
func (t *Tablename) Copy() *Tablename {
	return &Tablename{Table: t.Table, Service: t.Service, Modal: t.Modal}
}

// GlobalTablename computes the graph-node identity string
// prefix:service:table, omitting any missing part.
func (t *Tablename) GlobalTablename(prefix string) string {
	pieces := make([]string, 0, 3)
	for _, x := range []string{prefix, t.Service, t.Table} {
		if x != "" {
			pieces = append(pieces, x)
		}
	}
	return strings.Join(pieces, ":")
}

// Name computes the string name, falling back to defaultService when
// the tablename carries no service of its own
func (t *Tablename) Name(defaultService string) string {
	service := t.Service
	if service == "" {
		service = defaultService
	}
	if service == "" {
		return t.Table
	}
	return service + ":" + t.Table
}

// Matches reports whether this tablename refers to the given
// service/table/modal, re-splitting the table on a colon if the direct
// comparison fails
func (t *Tablename) Matches(service, table, modal string) bool {
	if service == t.Service && table == t.Table && modal == t.Modal {
		return true
	}
	selfService, selfTable := ParseServiceTable(t.Table)
	return service == selfService && table == selfTable && modal == t.Modal
}

// Same is equality where an absent service is read as defaultService
func (t *Tablename) Same(other *Tablename, defaultService string) bool {
	if t.Table != other.Table {
		return false
	}
	if t.Modal != other.Modal {
		return false
	}
	selfService := t.Service
	if selfService == "" {
		selfService = defaultService
	}
	otherService := other.Service
	if otherService == "" {
		otherService = defaultService
	}
	return selfService == otherService
}

// Equal reports structural equality
func (t *Tablename) Equal(other *Tablename) bool {
	return other != nil &&
		t.Table == other.Table &&
		t.Service == other.Service &&
		t.Modal == other.Modal
}

// Compare orders tablenames by modal, then service, then table
func (t *Tablename) Compare(other *Tablename) int {
	if c := strings.Compare(t.Modal, other.Modal); c != 0 {
		return c
	}
	if c := strings.Compare(t.Service, other.Service); c != 0 {
		return c
	}
	return strings.Compare(t.Table, other.Table)
}

// Hash returns the memoized structural hash. The value is computed on
// first use and stays valid because the fields never change after
// construction.
func (t *Tablename) Hash() uint64 {
	if t.hash == 0 {
		var d xxhash.Digest
		d.Reset()
		d.WriteString("Tablename\x00")
		d.WriteString(t.Modal)
		d.WriteString("\x00")
		d.WriteString(t.Service)
		d.WriteString("\x00")
		d.WriteString(t.Table)
		t.hash = d.Sum64()
	}
	return t.hash
}

// String renders modal:service:table, omitting missing parts
func (t *Tablename) String() string {
	pieces := make([]string, 0, 3)
	for _, x := range []string{t.Modal, t.Service, t.Table} {
		if x != "" {
			pieces = append(pieces, x)
		}
	}
	return strings.Join(pieces, ":")
}

// InvertUpdate flips a trailing +/- update suffix. The second return
// is false, with the receiver returned unchanged, when the table is
// not an update.
func (t *Tablename) InvertUpdate() (*Tablename, bool) {
	var suffix string
	switch {
	case strings.HasSuffix(t.Table, "+"):
		suffix = "-"
	case strings.HasSuffix(t.Table, "-"):
		suffix = "+"
	default:
		return t, false
	}
	n := t.Copy()
	n.Table = t.Table[:len(t.Table)-1] + suffix
	return n, true
}

// DropUpdate removes a trailing +/- update suffix, if present
func (t *Tablename) DropUpdate() (*Tablename, bool) {
	if strings.HasSuffix(t.Table, "+") || strings.HasSuffix(t.Table, "-") {
		n := t.Copy()
		n.Table = t.Table[:len(t.Table)-1]
		return n, true
	}
	return t, false
}

// MakeUpdate appends the + (insert) or - (delete) update suffix
func (t *Tablename) MakeUpdate(isInsert bool) (*Tablename, bool) {
	n := t.Copy()
	if isInsert {
		n.Table = t.Table + "+"
	} else {
		n.Table = t.Table + "-"
	}
	return n, true
}

// IsUpdate reports whether the table carries an update suffix
func (t *Tablename) IsUpdate() bool {
	return strings.HasSuffix(t.Table, "+") || strings.HasSuffix(t.Table, "-")
}

// DropService destructively clears the service. Callers must only use
// this when irreversibly stripping the theory from a formula they own.
func (t *Tablename) DropService() {
	t.Service = ""
	t.hash = 0
}
