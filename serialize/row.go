package serialize

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// DecodeRow parses a stored payload back into a row keyed by column name,
// producing the same Go-native value shapes the analyzer's coerceValue
// would have produced (int64, float64, bool, string, or nil). A payload
// key with no matching column is ignored; a column absent from the
// payload decodes to nil (spec §4.5).
func DecodeRow(tbl *core.Table, payload []byte) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, golemerrors.InternalError("unmarshaling row payload: %v", err)
	}

	row := make(map[string]any, len(tbl.Columns))
	for _, col := range tbl.Columns {
		msg, ok := raw[col.Name]
		if !ok {
			row[col.Name] = nil
			continue
		}
		v, err := decodeColumnValue(col, msg)
		if err != nil {
			return nil, err
		}
		row[col.Name] = v
	}
	return row, nil
}

func decodeColumnValue(col core.Column, msg json.RawMessage) (any, error) {
	if string(msg) == "null" {
		return nil, nil
	}

	switch col.SQLType {
	case core.TinyInt, core.SmallInt, core.Integer, core.BigInt:
		var n int64
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored integer: %v", col.Name, err)
		}
		return n, nil
	case core.Boolean:
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored boolean: %v", col.Name, err)
		}
		return b, nil
	case core.DateTime:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored datetime: %v", col.Name, err)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored datetime %q: %v", col.Name, s, err)
		}
		return t.Unix(), nil
	case core.Decimal, core.Varchar, core.Char, core.Text, core.Blob, core.Varbinary:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored string: %v", col.Name, err)
		}
		return s, nil
	case core.Float, core.Double, core.Real:
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, golemerrors.InternalError("column %q: malformed stored float: %v", col.Name, err)
		}
		return f, nil
	default:
		return nil, golemerrors.InternalError("column %q: unrecognized type %s", col.Name, col.SQLType)
	}
}

// DecimalToFloat is a convenience conversion for callers (such as ORDER BY
// comparisons over DECIMAL columns) that need a sortable numeric
// approximation of a decoded decimal string; it is never used to persist
// or re-encode a value, only to compare two already-encoded literals.
func DecimalToFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, golemerrors.InternalError("malformed decimal literal %q: %v", s, err)
	}
	return f, nil
}
