// Package translate lowers analyzed sql.Plan values into operations against
// a store.Client: predicate strings for reads, and Entity writes for
// mutations. Anything the backing store's predicate grammar cannot express
// (IS NULL, non-prefix LIKE, comparisons on non-indexed columns, or NOT
// nodes that can't be pushed to a comparable leaf) is left as a residual
// sql.ResolvedExpr tree that MatchesResidual evaluates row-by-row after a
// broader query comes back from the store.
package translate

import (
	"strconv"
	"strings"
	"time"

	"github.com/golemdb/golemdb-sql-go/codec"
	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/serialize"
	"github.com/golemdb/golemdb-sql-go/sql"
)

// datetimeValue accepts either an int64 of Unix seconds or an RFC3339
// string, matching what the analyzer's coerceValue allows through for a
// DATETIME column's comparison value.
func datetimeValue(v any) (time.Time, error) {
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

// Translated is the result of lowering a WHERE clause: the predicate
// fragment to send to the store (always at least the tenant scope) plus
// whatever couldn't be pushed down, to be applied as a post-filter over
// decoded rows.
type Translated struct {
	Predicate string
	Residual  sql.ResolvedExpr // nil if nothing needs post-filtering
}

// TranslateWhere lowers a resolved WHERE tree into a store predicate
// scoped to appID/table, splitting off anything that can't be pushed into
// the store's own grammar (spec §4.4.2).
func TranslateWhere(tbl *core.Table, appID string, where sql.ResolvedExpr) (Translated, error) {
	scope := tenantScope(appID, tbl.Name)

	if where == nil {
		return Translated{Predicate: scope}, nil
	}

	conjuncts := collectConjuncts(where)
	var pushed []string
	var residuals []sql.ResolvedExpr
	for _, c := range conjuncts {
		frag, ok, err := pushExpr(tbl, c)
		if err != nil {
			return Translated{}, err
		}
		if ok {
			pushed = append(pushed, frag)
		} else {
			residuals = append(residuals, c)
		}
	}

	predicate := scope
	for _, frag := range pushed {
		predicate += " && " + frag
	}

	return Translated{Predicate: predicate, Residual: combineAnd(residuals)}, nil
}

func tenantScope(appID, table string) string {
	return quoteEq(serialize.AnnotationRowType, serialize.RowTypeJSON) +
		" && " + quoteEq(serialize.AnnotationRelation, serialize.Relation(appID, table))
}

func quoteEq(field, value string) string {
	return field + `="` + escapePredicateString(value) + `"`
}

func escapePredicateString(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// collectConjuncts flattens a top-level chain of ResolvedAnd nodes into its
// leaves, so each conjunct can be pushed or residualized independently.
func collectConjuncts(e sql.ResolvedExpr) []sql.ResolvedExpr {
	and, ok := e.(sql.ResolvedAnd)
	if !ok {
		return []sql.ResolvedExpr{e}
	}
	return append(collectConjuncts(and.Left), collectConjuncts(and.Right)...)
}

func combineAnd(exprs []sql.ResolvedExpr) sql.ResolvedExpr {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = sql.ResolvedAnd{Left: out, Right: e}
	}
	return out
}

// pushExpr attempts to fully translate expr into the store's predicate
// grammar, pushing NOT to its leaves via De Morgan's laws along the way.
// It returns ok=false if any part of the subtree can't be expressed (IS
// NULL, a non-prefix LIKE pattern, or a comparison on a non-indexed
// column), in which case the caller keeps the whole conjunct as a residual
// rather than push a partial, incorrect fragment.
func pushExpr(tbl *core.Table, e sql.ResolvedExpr) (string, bool, error) {
	switch node := e.(type) {
	case sql.ResolvedComparison:
		return pushComparison(tbl, node, false)
	case sql.ResolvedIsNull:
		return "", false, nil
	case sql.ResolvedAnd:
		l, ok, err := pushExpr(tbl, node.Left)
		if err != nil || !ok {
			return "", false, err
		}
		r, ok, err := pushExpr(tbl, node.Right)
		if err != nil || !ok {
			return "", false, err
		}
		return l + " && " + r, true, nil
	case sql.ResolvedOr:
		l, ok, err := pushExpr(tbl, node.Left)
		if err != nil || !ok {
			return "", false, err
		}
		r, ok, err := pushExpr(tbl, node.Right)
		if err != nil || !ok {
			return "", false, err
		}
		return "(" + l + " || " + r + ")", true, nil
	case sql.ResolvedNot:
		return pushNegated(tbl, node.Expr)
	default:
		return "", false, golemerrors.InternalError("unrecognized resolved expression node %T", e)
	}
}

// pushNegated pushes a NOT down through De Morgan's laws until it lands on
// a comparison leaf, which can usually be expressed with its inverse
// operator.
func pushNegated(tbl *core.Table, e sql.ResolvedExpr) (string, bool, error) {
	switch node := e.(type) {
	case sql.ResolvedComparison:
		return pushComparison(tbl, node, true)
	case sql.ResolvedIsNull:
		return "", false, nil
	case sql.ResolvedAnd:
		l, ok, err := pushNegated(tbl, node.Left)
		if err != nil || !ok {
			return "", false, err
		}
		r, ok, err := pushNegated(tbl, node.Right)
		if err != nil || !ok {
			return "", false, err
		}
		return "(" + l + " || " + r + ")", true, nil
	case sql.ResolvedOr:
		l, ok, err := pushNegated(tbl, node.Left)
		if err != nil || !ok {
			return "", false, err
		}
		r, ok, err := pushNegated(tbl, node.Right)
		if err != nil || !ok {
			return "", false, err
		}
		return l + " && " + r, true, nil
	case sql.ResolvedNot:
		return pushExpr(tbl, node.Expr)
	default:
		return "", false, golemerrors.InternalError("unrecognized resolved expression node %T", e)
	}
}

func pushComparison(tbl *core.Table, cmp sql.ResolvedComparison, negate bool) (string, bool, error) {
	col, ok := tbl.Column(cmp.Column)
	if !ok {
		return "", false, golemerrors.InternalError("table %q has no column %q", tbl.Name, cmp.Column)
	}
	// A column whose type can never be indexed (spec §4.1.6) rejects the
	// whole query rather than falling back to a post-filter: the analyzer
	// already catches this at resolve time, this is a second line of
	// defense for callers that build a Plan directly.
	if !col.SQLType.Indexable() {
		return "", false, golemerrors.NotSupportedError("column %s is not indexable", col.Name)
	}
	if !col.Indexed {
		return "", false, nil
	}

	op := cmp.Op
	if negate {
		var ok bool
		op, ok = negateOp(op)
		if !ok {
			return "", false, nil
		}
	}

	if op == sql.OpLike {
		return pushLike(col, cmp.Value)
	}
	if op == sql.OpNotEquals {
		// The store grammar has no direct "!=" operator; NOT-EQUALS never
		// pushes down and falls back to a post-filter.
		return "", false, nil
	}

	storeOp, ok := storeOperator(op)
	if !ok {
		return "", false, nil
	}

	field := serialize.IndexAnnotationKey(col.Name)
	encoded, err := encodeIndexLiteral(col, cmp.Value)
	if err != nil {
		return "", false, err
	}
	return field + storeOp + encoded, true, nil
}

func negateOp(op sql.CompareOp) (sql.CompareOp, bool) {
	switch op {
	case sql.OpEquals:
		return sql.OpNotEquals, true
	case sql.OpNotEquals:
		return sql.OpEquals, true
	case sql.OpLessThan:
		return sql.OpGreaterThanOrEqual, true
	case sql.OpGreaterThanOrEqual:
		return sql.OpLessThan, true
	case sql.OpLessThanOrEqual:
		return sql.OpGreaterThan, true
	case sql.OpGreaterThan:
		return sql.OpLessThanOrEqual, true
	default:
		return 0, false
	}
}

func storeOperator(op sql.CompareOp) (string, bool) {
	switch op {
	case sql.OpEquals:
		return "=", true
	case sql.OpLessThan:
		return "<", true
	case sql.OpLessThanOrEqual:
		return "<=", true
	case sql.OpGreaterThan:
		return ">", true
	case sql.OpGreaterThanOrEqual:
		return ">=", true
	default:
		return "", false
	}
}

// pushLike lowers a LIKE pattern to the store's glob operator, but only
// when the pattern is a bare prefix match ("foo%") with no other SQL
// wildcards; any other shape needs full regex-like semantics the store
// grammar doesn't have, so it stays a residual.
func pushLike(col core.Column, value any) (string, bool, error) {
	pattern, ok := value.(string)
	if !ok {
		return "", false, golemerrors.InternalError("LIKE requires a string pattern")
	}
	if !strings.HasSuffix(pattern, "%") {
		return "", false, nil
	}
	prefix := pattern[:len(pattern)-1]
	if strings.ContainsAny(prefix, "%_") {
		return "", false, nil
	}
	if strings.ContainsAny(prefix, `*?[]\`) {
		return "", false, nil
	}
	glob := prefix + "*"
	field := serialize.IndexAnnotationKey(col.Name)
	return field + ` ~ "` + escapePredicateString(glob) + `"`, true, nil
}

// encodeIndexLiteral mirrors serialize's indexAnnotation encoding for a
// single comparison value, formatting it the way the store's grammar
// expects a numeric or quoted-string literal.
func encodeIndexLiteral(col core.Column, v any) (string, error) {
	switch col.SQLType {
	case core.TinyInt, core.SmallInt, core.Integer, core.BigInt:
		n, ok := v.(int64)
		if !ok {
			return "", golemerrors.InternalError("column %q: expected int64, got %T", col.Name, v)
		}
		width := codec.IntegerWidthForType(col.SQLType.String())
		encoded, err := codec.EncodeSignedInt(n, width)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(encoded, 10), nil
	case core.Boolean:
		b, ok := v.(bool)
		if !ok {
			return "", golemerrors.InternalError("column %q: expected bool, got %T", col.Name, v)
		}
		return strconv.FormatUint(codec.EncodeBool(b), 10), nil
	case core.DateTime:
		t, err := datetimeValue(v)
		if err != nil {
			return "", err
		}
		encoded, err := codec.EncodeDateTime(t)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(encoded, 10), nil
	case core.Decimal:
		s, ok := v.(string)
		if !ok {
			return "", golemerrors.InternalError("column %q: expected string, got %T", col.Name, v)
		}
		encoded, err := codec.EncodeDecimal(s, col.Precision, col.Scale)
		if err != nil {
			return "", err
		}
		return `"` + escapePredicateString(encoded) + `"`, nil
	case core.Varchar, core.Char, core.Text:
		s, ok := v.(string)
		if !ok {
			return "", golemerrors.InternalError("column %q: expected string, got %T", col.Name, v)
		}
		return `"` + escapePredicateString(s) + `"`, nil
	default:
		return "", golemerrors.InternalError("column %q: type %s is not indexable", col.Name, col.SQLType)
	}
}
