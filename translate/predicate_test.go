package translate

import (
	"strings"
	"testing"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/sql"
)

func peopleTable() *core.Table {
	return &core.Table{
		Name: "people",
		Columns: []core.Column{
			{Name: "id", SQLType: core.BigInt, Indexed: true},
			{Name: "age", SQLType: core.Integer, Indexed: true},
			{Name: "name", SQLType: core.Varchar, Precision: 32, Indexed: true},
			{Name: "bio", SQLType: core.Text, Nullable: true},
			{Name: "score", SQLType: core.Double, Nullable: true},
		},
		PrimaryKey: "id",
	}
}

func TestTranslateWhereScopesAndPushesEquality(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedComparison{Column: "name", Op: sql.OpEquals, Value: "Al"}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual != nil {
		t.Fatalf("expected no residual, got %+v", tr.Residual)
	}
	if !strings.Contains(tr.Predicate, `relation="app.people"`) {
		t.Errorf("missing relation scope: %s", tr.Predicate)
	}
	if !strings.Contains(tr.Predicate, `idx_name="Al"`) {
		t.Errorf("missing pushed equality: %s", tr.Predicate)
	}
}

func TestTranslateWhereNonIndexedColumnIsResidual(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedComparison{Column: "bio", Op: sql.OpEquals, Value: "hello"}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual == nil {
		t.Fatal("expected residual for non-indexed column")
	}
}

func TestTranslateWhereNonIndexableTypeIsRejected(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedComparison{Column: "score", Op: sql.OpGreaterThan, Value: 1.0}
	_, err := TranslateWhere(tbl, "app", where)
	if !golemerrors.Is(err, golemerrors.KindNotSupported) {
		t.Fatalf("expected NotSupportedError, got %v", err)
	}
}

func TestTranslateWhereIsNullIsResidual(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedIsNull{Column: "name"}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual == nil {
		t.Fatal("expected residual for IS NULL")
	}
}

func TestTranslateWhereNotPushesViaDeMorgan(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedNot{Expr: sql.ResolvedComparison{Column: "age", Op: sql.OpGreaterThan, Value: int64(18)}}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual != nil {
		t.Fatalf("expected NOT to push via De Morgan, got residual %+v", tr.Residual)
	}
	if !strings.Contains(tr.Predicate, "idx_age<=") {
		t.Errorf("expected inverted operator, got %s", tr.Predicate)
	}
}

func TestTranslateWherePrefixLikeBecomesGlob(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedComparison{Column: "name", Op: sql.OpLike, Value: "Al%"}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual != nil {
		t.Fatalf("expected prefix LIKE to push, got residual")
	}
	if !strings.Contains(tr.Predicate, `idx_name ~ "Al*"`) {
		t.Errorf("expected glob fragment, got %s", tr.Predicate)
	}
}

func TestTranslateWhereNonPrefixLikeIsResidual(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedComparison{Column: "name", Op: sql.OpLike, Value: "%Al%"}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Residual == nil {
		t.Fatal("expected non-prefix LIKE to stay a residual")
	}
}

func TestTranslateWhereMixedAndSplitsPushableFromResidual(t *testing.T) {
	tbl := peopleTable()
	where := sql.ResolvedAnd{
		Left:  sql.ResolvedComparison{Column: "age", Op: sql.OpGreaterThanOrEqual, Value: int64(18)},
		Right: sql.ResolvedIsNull{Column: "name", Negate: true},
	}
	tr, err := TranslateWhere(tbl, "app", where)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tr.Predicate, "idx_age>=") {
		t.Errorf("expected age comparison pushed, got %s", tr.Predicate)
	}
	if tr.Residual == nil {
		t.Fatal("expected the IS NOT NULL conjunct to remain a residual")
	}
}
