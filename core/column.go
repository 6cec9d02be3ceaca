package core

import (
	"unicode"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// SQLType enumerates the column types the catalog can describe (spec §3.2).
type SQLType int

const (
	TinyInt SQLType = iota
	SmallInt
	Integer
	BigInt
	Boolean
	DateTime
	Decimal
	Varchar
	Char
	Text
	Float
	Double
	Real
	Blob
	Varbinary
)

func (t SQLType) String() string {
	switch t {
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Boolean:
		return "BOOLEAN"
	case DateTime:
		return "DATETIME"
	case Decimal:
		return "DECIMAL"
	case Varchar:
		return "VARCHAR"
	case Char:
		return "CHAR"
	case Text:
		return "TEXT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Real:
		return "REAL"
	case Blob:
		return "BLOB"
	case Varbinary:
		return "VARBINARY"
	default:
		return "UNKNOWN"
	}
}

// Indexable reports whether values of this type can be encoded as backing
// store annotations (spec §3.2). FLOAT/DOUBLE/REAL/BLOB/VARBINARY are
// payload-only and can never be indexed regardless of the Column.Indexed flag.
func (t SQLType) Indexable() bool {
	switch t {
	case Float, Double, Real, Blob, Varbinary:
		return false
	default:
		return true
	}
}

// Column describes a single table column: its declared SQL type, nullability,
// default expression, DECIMAL precision/scale, and whether it is indexed.
type Column struct {
	Name      string  `toml:"name"`
	SQLType   SQLType `toml:"type"`
	Nullable  bool    `toml:"nullable"`
	Default   string  `toml:"default,omitempty"`
	Precision int     `toml:"precision,omitempty"`
	Scale     int     `toml:"scale,omitempty"`
	Indexed   bool    `toml:"indexed"`
}

// ValidateIdentifier enforces the `[L_][L N _]*` identifier grammar (spec
// §3.1) shared by table, column, and index names: a leading letter or
// underscore, followed by letters, digits, or underscores.
func ValidateIdentifier(name string) error {
	if name == "" {
		return golemerrors.ProgrammingError("identifier must not be empty")
	}
	runes := []rune(name)
	first := runes[0]
	if !(unicode.IsLetter(first) || first == '_') {
		return golemerrors.ProgrammingError("identifier %q must start with a letter or underscore", name)
	}
	for _, r := range runes[1:] {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return golemerrors.ProgrammingError("identifier %q contains invalid character %q", name, r)
		}
	}
	return nil
}

// Validate checks the column's own invariants: a valid identifier, and
// DECIMAL columns must carry precision >= scale >= 0.
func (c Column) Validate() error {
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.SQLType == Decimal {
		if c.Scale < 0 || c.Precision < c.Scale {
			return golemerrors.ProgrammingError("column %q: DECIMAL(%d,%d) is invalid", c.Name, c.Precision, c.Scale)
		}
	}
	if c.Indexed && !c.SQLType.Indexable() {
		return golemerrors.ProgrammingError("column %q: type %s cannot be indexed", c.Name, c.SQLType)
	}
	return nil
}
