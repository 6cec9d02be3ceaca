package core

import golemerrors "github.com/golemdb/golemdb-sql-go/errors"

// Schema is a named container of Tables, identified by an opaque schema_id
// derived from connection parameters (spec §3.1). It is the unit of
// persistence for the catalog store.
type Schema struct {
	ID     string  `toml:"schema_id"`
	Tables []Table `toml:"tables"`
}

// Table looks up a table by name, returning ok=false if absent.
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// AddTable inserts a new table, rejecting a name collision.
func (s *Schema) AddTable(t Table) error {
	if _, ok := s.Table(t.Name); ok {
		return golemerrors.ProgrammingError("table %q already exists", t.Name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	s.Tables = append(s.Tables, t)
	return nil
}

// DropTable removes a table by name, returning ProgrammingError if absent.
func (s *Schema) DropTable(name string) error {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			s.Tables = append(s.Tables[:i], s.Tables[i+1:]...)
			return nil
		}
	}
	return golemerrors.ProgrammingError("table %q does not exist", name)
}
