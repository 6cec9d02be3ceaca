package core

// Index names a single-column index (spec §3.1). Composite indexes are not
// expressible at this layer; a multi-column lookup is satisfied by ANDing
// several single-column indexed predicates in the translator.
type Index struct {
	Name       string `toml:"name"`
	ColumnName string `toml:"column_name"`
}
