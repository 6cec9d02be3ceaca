// Package serialize converts between SQL rows (as produced or consumed by
// the sql/analyzer package) and the backing store's Entity representation:
// a JSON payload carrying every column's value, plus the reserved string
// and numeric annotations that make indexed columns queryable.
package serialize

import (
	"encoding/json"
	"time"

	"github.com/golemdb/golemdb-sql-go/codec"
	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/store"
)

// Reserved annotation keys that never collide with an `idx_`-prefixed
// column name, since ValidateIdentifier forbids leading digits/underscored
// keywords from being confused with these.
const (
	AnnotationRowType     = "row_type"
	AnnotationRelation    = "relation"
	AnnotationCounterNext = "next"
	RowTypeJSON           = "json"
	RowTypeCounter        = "counter"
)

// Relation returns the tenant-scoped relation identifier used as the
// "relation" annotation and in translated predicates: "<app_id>.<table>".
func Relation(appID, table string) string {
	return appID + "." + table
}

// IndexAnnotationKey returns the reserved annotation key for an indexed
// column.
func IndexAnnotationKey(column string) string {
	return "idx_" + column
}

// EncodeRow turns a fully-coerced row (as produced by the analyzer, keyed
// by column name with Go-native values: int64, float64, bool, string, or
// nil) into a store.Entity: a canonical JSON payload plus the reserved
// annotations needed to make indexed columns queryable.
func EncodeRow(tbl *core.Table, appID string, values map[string]any) (store.Entity, error) {
	payload := make(map[string]any, len(tbl.Columns))
	stringAnnotations := map[string]string{
		AnnotationRowType:  RowTypeJSON,
		AnnotationRelation: Relation(appID, tbl.Name),
	}
	numericAnnotations := make(map[string]uint64)

	for _, col := range tbl.Columns {
		v, ok := values[col.Name]
		if !ok || v == nil {
			continue // absent from the payload means NULL on decode
		}

		jsonValue, err := canonicalJSONValue(col, v)
		if err != nil {
			return store.Entity{}, err
		}
		payload[col.Name] = jsonValue

		if !col.Indexed {
			continue
		}
		if err := indexAnnotation(col, v, stringAnnotations, numericAnnotations); err != nil {
			return store.Entity{}, err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return store.Entity{}, golemerrors.InternalError("marshaling row payload: %v", err)
	}

	return store.Entity{
		Payload:            body,
		BTL:                tbl.EntityTTL,
		StringAnnotations:  stringAnnotations,
		NumericAnnotations: numericAnnotations,
	}, nil
}

// canonicalJSONValue converts a coerced column value into the JSON-native
// form stored in the payload: DATETIME values are stored as RFC3339
// strings, DECIMAL values as their decimal-literal strings, and every
// other type passes through unchanged.
func canonicalJSONValue(col core.Column, v any) (any, error) {
	if col.SQLType == core.DateTime {
		t, err := coerceDateTime(v)
		if err != nil {
			return nil, err
		}
		return t.UTC().Format(time.RFC3339), nil
	}
	return v, nil
}

// coerceDateTime accepts either an int64 of Unix seconds or an RFC3339
// string, matching what the analyzer's coerceValue allows through for a
// DATETIME column.
func coerceDateTime(v any) (time.Time, error) {
	switch n := v.(type) {
	case int64:
		return time.Unix(n, 0).UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339, n)
		if err != nil {
			return time.Time{}, golemerrors.DataError("malformed DATETIME literal %q: %v", n, err)
		}
		return t, nil
	default:
		return time.Time{}, golemerrors.InternalError("unexpected DATETIME value type %T", v)
	}
}

// indexAnnotation encodes col's value into the reserved idx_<col>
// annotation, choosing the string or numeric annotation map per spec
// §4.1's codec rules.
func indexAnnotation(col core.Column, v any, strAnn map[string]string, numAnn map[string]uint64) error {
	key := IndexAnnotationKey(col.Name)

	switch col.SQLType {
	case core.TinyInt, core.SmallInt, core.Integer, core.BigInt:
		n, ok := v.(int64)
		if !ok {
			return golemerrors.InternalError("column %q: expected int64 for indexing, got %T", col.Name, v)
		}
		width := codec.IntegerWidthForType(col.SQLType.String())
		encoded, err := codec.EncodeSignedInt(n, width)
		if err != nil {
			return err
		}
		numAnn[key] = encoded
	case core.Boolean:
		b, ok := v.(bool)
		if !ok {
			return golemerrors.InternalError("column %q: expected bool for indexing, got %T", col.Name, v)
		}
		numAnn[key] = codec.EncodeBool(b)
	case core.DateTime:
		t, err := coerceDateTime(v)
		if err != nil {
			return err
		}
		encoded, err := codec.EncodeDateTime(t)
		if err != nil {
			return err
		}
		numAnn[key] = encoded
	case core.Decimal:
		s, ok := v.(string)
		if !ok {
			return golemerrors.InternalError("column %q: expected string for indexing, got %T", col.Name, v)
		}
		encoded, err := codec.EncodeDecimal(s, col.Precision, col.Scale)
		if err != nil {
			return err
		}
		strAnn[key] = encoded
	case core.Varchar, core.Char, core.Text:
		s, ok := v.(string)
		if !ok {
			return golemerrors.InternalError("column %q: expected string for indexing, got %T", col.Name, v)
		}
		var encoded string
		var err error
		if col.SQLType == core.Text {
			encoded = codec.EncodeText(s)
		} else {
			encoded, err = codec.EncodeVarchar(s, col.Precision)
			if err != nil {
				return err
			}
		}
		strAnn[key] = encoded
	default:
		return golemerrors.InternalError("column %q: type %s is not indexable", col.Name, col.SQLType)
	}
	return nil
}
