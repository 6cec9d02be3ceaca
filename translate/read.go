package translate

import (
	"context"
	"sort"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/serialize"
	"github.com/golemdb/golemdb-sql-go/sql"
	"github.com/golemdb/golemdb-sql-go/store"
)

// Select lowers a resolved SELECT: query the store, apply any residual
// post-filter, sort/paginate in core since the store has no notion of row
// order (spec §4.4.3), then project the requested columns.
func Select(ctx context.Context, client store.Client, appID string, detail *sql.SelectDetail) ([]map[string]any, error) {
	matches, err := findMatchingEntities(ctx, client, appID, detail.Table, detail.Where)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, len(matches))
	for i, m := range matches {
		rows[i] = m.row
	}

	if len(detail.OrderBy) > 0 {
		if err := sortRows(detail.Table, rows, detail.OrderBy); err != nil {
			return nil, err
		}
	}

	rows = paginate(rows, detail.Offset, detail.Limit)

	if len(detail.Columns) == 0 {
		return rows, nil
	}
	projected := make([]map[string]any, len(rows))
	for i, row := range rows {
		p := make(map[string]any, len(detail.Columns))
		for _, col := range detail.Columns {
			p[col] = row[col]
		}
		projected[i] = p
	}
	return projected, nil
}

// sortRows orders rows in place by the requested ORDER BY terms, applied
// in sequence so later terms break ties among earlier ones. tbl supplies
// each term's declared SQLType, since a DECIMAL column's decoded value is
// a canonical literal string that must not be compared byte-lexically.
func sortRows(tbl *core.Table, rows []map[string]any, orderBy []sql.OrderTerm) error {
	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		for _, term := range orderBy {
			col, ok := tbl.Column(term.Column)
			if !ok {
				sortErr = golemerrors.InternalError("table %q has no column %q", tbl.Name, term.Column)
				return false
			}
			cmp, err := compareOrderable(col.SQLType, rows[i][term.Column], rows[j][term.Column])
			if err != nil {
				sortErr = err
				return false
			}
			if cmp == 0 {
				continue
			}
			if term.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return sortErr
}

// compareOrderable compares two decoded column values of the given
// SQLType, treating NULL as sorting before every non-NULL value. DECIMAL
// values decode to their canonical literal string (serialize.DecodeRow),
// which sorts wrong byte-lexically ("10.50" < "9.00"), so they're compared
// via DecimalToFloat instead of falling into the generic string case.
func compareOrderable(sqlType core.SQLType, a, b any) (int, error) {
	if a == nil && b == nil {
		return 0, nil
	}
	if a == nil {
		return -1, nil
	}
	if b == nil {
		return 1, nil
	}

	if sqlType == core.Decimal {
		as, ok := a.(string)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: expected string for DECIMAL, got %T", a)
		}
		bs, ok := b.(string)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: expected string for DECIMAL, got %T", b)
		}
		af, err := serialize.DecimalToFloat(as)
		if err != nil {
			return 0, err
		}
		bf, err := serialize.DecimalToFloat(bs)
		if err != nil {
			return 0, err
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: mismatched types %T/%T", a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: mismatched types %T/%T", a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: mismatched types %T/%T", a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, golemerrors.InternalError("ORDER BY: mismatched types %T/%T", a, b)
		}
		if av == bv {
			return 0, nil
		}
		if !av && bv {
			return -1, nil
		}
		return 1, nil
	default:
		return 0, golemerrors.InternalError("ORDER BY: unorderable type %T", a)
	}
}

// paginate applies OFFSET then LIMIT, both optional, clamping rather than
// erroring on an out-of-range offset.
func paginate(rows []map[string]any, offset, limit *int) []map[string]any {
	if offset != nil {
		o := *offset
		if o >= len(rows) {
			return nil
		}
		if o > 0 {
			rows = rows[o:]
		}
	}
	if limit != nil && *limit < len(rows) {
		rows = rows[:*limit]
	}
	return rows
}
