package translate

import (
	"strings"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/sql"
)

// MatchesResidual evaluates a residual ResolvedExpr (the part of a WHERE
// clause that couldn't be pushed into the store's predicate grammar)
// against a decoded row, the way the original apply_post_filter did for a
// flat AND-only condition list — generalized here to the full AND/OR/NOT
// tree the analyzer can produce.
func MatchesResidual(row map[string]any, expr sql.ResolvedExpr) (bool, error) {
	if expr == nil {
		return true, nil
	}
	switch node := expr.(type) {
	case sql.ResolvedComparison:
		return matchComparison(row, node)
	case sql.ResolvedIsNull:
		isNil := row[node.Column] == nil
		if node.Negate {
			return !isNil, nil
		}
		return isNil, nil
	case sql.ResolvedAnd:
		l, err := MatchesResidual(row, node.Left)
		if err != nil || !l {
			return false, err
		}
		return MatchesResidual(row, node.Right)
	case sql.ResolvedOr:
		l, err := MatchesResidual(row, node.Left)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		return MatchesResidual(row, node.Right)
	case sql.ResolvedNot:
		inner, err := MatchesResidual(row, node.Expr)
		if err != nil {
			return false, err
		}
		return !inner, nil
	default:
		return false, golemerrors.InternalError("unrecognized resolved expression node %T", expr)
	}
}

func matchComparison(row map[string]any, cmp sql.ResolvedComparison) (bool, error) {
	actual, present := row[cmp.Column]
	if !present || actual == nil {
		return false, nil // NULL values don't match any condition
	}

	if cmp.Op == sql.OpLike {
		pattern, ok := cmp.Value.(string)
		if !ok {
			return false, golemerrors.InternalError("LIKE requires a string pattern")
		}
		s, ok := actual.(string)
		if !ok {
			return false, nil
		}
		return matchLikePattern(s, pattern), nil
	}

	cmpResult, ok := compareValues(actual, cmp.Value)
	if !ok {
		return false, nil
	}

	switch cmp.Op {
	case sql.OpEquals:
		return cmpResult == 0, nil
	case sql.OpNotEquals:
		return cmpResult != 0, nil
	case sql.OpLessThan:
		return cmpResult < 0, nil
	case sql.OpLessThanOrEqual:
		return cmpResult <= 0, nil
	case sql.OpGreaterThan:
		return cmpResult > 0, nil
	case sql.OpGreaterThanOrEqual:
		return cmpResult >= 0, nil
	default:
		return false, golemerrors.InternalError("unsupported comparison operator")
	}
}

// compareValues returns (result, ok) where result matches strings.Compare
// / integer-comparison semantics: negative if actual < expected, zero if
// equal, positive if actual > expected. ok is false if the two values
// aren't comparable (a type mismatch, which never matches).
func compareValues(actual, expected any) (int, bool) {
	switch a := actual.(type) {
	case int64:
		b, ok := expected.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case float64:
		b, ok := expected.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case string:
		b, ok := expected.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(a, b), true
	case bool:
		b, ok := expected.(bool)
		if !ok {
			return 0, false
		}
		if a == b {
			return 0, true
		}
		if !a && b {
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

// matchLikePattern implements SQL LIKE semantics for the residual path
// (patterns that couldn't be lowered to the store's prefix-glob operator):
// '%' matches any run of characters, '_' matches exactly one.
func matchLikePattern(s, pattern string) bool {
	return likeMatch(s, pattern)
}

func likeMatch(s, pattern string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '%':
		rest := pattern[1:]
		for i := 0; i <= len(s); i++ {
			if likeMatch(s[i:], rest) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatch(s[1:], pattern[1:])
	default:
		if len(s) == 0 || s[0] != pattern[0] {
			return false
		}
		return likeMatch(s[1:], pattern[1:])
	}
}
