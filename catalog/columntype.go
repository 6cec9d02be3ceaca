package catalog

import (
	"strconv"
	"strings"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// ParseColumnType splits a SQL type declaration such as "DECIMAL(10,2)",
// "VARCHAR(50)", or "BIGINT" into its base keyword and optional numeric
// parameters. precision/scale are populated only for DECIMAL/NUMERIC/NUMBER;
// length is populated only for VARCHAR/CHAR. Absent parameters are nil.
func ParseColumnType(decl string) (baseType string, precision, scale, length *int, err error) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return "", nil, nil, nil, golemerrors.ProgrammingError("empty column type declaration")
	}

	base := decl
	var params string
	if open := strings.IndexByte(decl, '('); open >= 0 {
		shut := strings.IndexByte(decl, ')')
		if shut < open {
			return "", nil, nil, nil, golemerrors.ProgrammingError("malformed type declaration %q", decl)
		}
		base = decl[:open]
		params = decl[open+1 : shut]
	}
	base = strings.ToUpper(strings.TrimSpace(base))

	var nums []int
	if params != "" {
		for _, part := range strings.Split(params, ",") {
			n, convErr := strconv.Atoi(strings.TrimSpace(part))
			if convErr != nil {
				return "", nil, nil, nil, golemerrors.ProgrammingError("malformed type parameter in %q", decl)
			}
			nums = append(nums, n)
		}
	}

	switch base {
	case "DECIMAL", "NUMERIC", "NUMBER":
		if len(nums) >= 1 {
			precision = &nums[0]
		}
		if len(nums) >= 2 {
			scale = &nums[1]
		}
	case "VARCHAR", "CHAR":
		if len(nums) >= 1 {
			length = &nums[0]
		}
	}

	return base, precision, scale, length, nil
}

// GetDecimalPrecisionScale resolves the effective (precision, scale) for a
// DECIMAL/NUMERIC declaration, defaulting scale to 0 when it is omitted
// and precision to 18 when it is omitted.
func GetDecimalPrecisionScale(decl string) (precision, scale int, err error) {
	base, p, s, _, err := ParseColumnType(decl)
	if err != nil {
		return 0, 0, err
	}
	switch base {
	case "DECIMAL", "NUMERIC", "NUMBER":
	default:
		return 0, 0, golemerrors.ProgrammingError("%q is not a DECIMAL type", decl)
	}

	precision = 18
	if p != nil {
		precision = *p
	}
	scale = 0
	if s != nil {
		scale = *s
	}
	if scale < 0 || precision < scale {
		return 0, 0, golemerrors.ProgrammingError("invalid DECIMAL(%d,%d)", precision, scale)
	}
	return precision, scale, nil
}

// ResolveSQLType maps a base type keyword to the core.SQLType enum used by
// the catalog and codec layers.
func ResolveSQLType(baseType string) (core.SQLType, error) {
	switch strings.ToUpper(baseType) {
	case "TINYINT":
		return core.TinyInt, nil
	case "SMALLINT":
		return core.SmallInt, nil
	case "INTEGER", "INT":
		return core.Integer, nil
	case "BIGINT":
		return core.BigInt, nil
	case "BOOLEAN", "BOOL":
		return core.Boolean, nil
	case "DATETIME", "TIMESTAMP":
		return core.DateTime, nil
	case "DECIMAL", "NUMERIC", "NUMBER":
		return core.Decimal, nil
	case "VARCHAR":
		return core.Varchar, nil
	case "CHAR":
		return core.Char, nil
	case "TEXT":
		return core.Text, nil
	case "FLOAT":
		return core.Float, nil
	case "DOUBLE":
		return core.Double, nil
	case "REAL":
		return core.Real, nil
	case "BLOB":
		return core.Blob, nil
	case "VARBINARY":
		return core.Varbinary, nil
	default:
		return 0, golemerrors.ProgrammingError("unknown SQL type %q", baseType)
	}
}
