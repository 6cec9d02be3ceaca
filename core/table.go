package core

import golemerrors "github.com/golemdb/golemdb-sql-go/errors"

// Table describes a table within a Schema: its name, per-entity block TTL,
// ordered columns, single-column indexes, and optional primary key (spec
// §3.1).
type Table struct {
	Name       string   `toml:"name"`
	EntityTTL  uint64   `toml:"entity_ttl"`
	Columns    []Column `toml:"columns"`
	Indexes    []Index  `toml:"indexes"`
	PrimaryKey string   `toml:"primary_key,omitempty"`
}

// Column looks up a column by name, returning ok=false if absent.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks table-level invariants: a valid identifier, no duplicate
// column names, each column individually valid, at most one primary key
// column, and the primary key column (if any) is always indexed.
func (t *Table) Validate() error {
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return golemerrors.ProgrammingError("table %q: duplicate column %q", t.Name, c.Name)
		}
		seen[c.Name] = true
		if err := c.Validate(); err != nil {
			return err
		}
	}

	if t.PrimaryKey != "" {
		pk, ok := t.Column(t.PrimaryKey)
		if !ok {
			return golemerrors.ProgrammingError("table %q: primary key %q is not a column", t.Name, t.PrimaryKey)
		}
		if !pk.Indexed {
			return golemerrors.ProgrammingError("table %q: primary key %q must be indexed", t.Name, t.PrimaryKey)
		}
	}

	for _, idx := range t.Indexes {
		if _, ok := t.Column(idx.ColumnName); !ok {
			return golemerrors.ProgrammingError("table %q: index on unknown column %q", t.Name, idx.ColumnName)
		}
	}

	return nil
}
