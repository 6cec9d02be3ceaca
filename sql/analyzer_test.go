package sql

import (
	"testing"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

func usersSchema() *core.Schema {
	return &core.Schema{
		ID: "test",
		Tables: []core.Table{
			{
				Name: "users",
				Columns: []core.Column{
					{Name: "id", SQLType: core.BigInt, Indexed: true},
					{Name: "name", SQLType: core.Varchar, Precision: 50},
					{Name: "balance", SQLType: core.Decimal, Precision: 10, Scale: 2, Nullable: true},
					{Name: "active", SQLType: core.Boolean, Nullable: true},
				},
				PrimaryKey: "id",
			},
		},
	}
}

func TestAnalyzeSelectOnNonIndexableColumnIsRejected(t *testing.T) {
	schema := &core.Schema{
		ID: "test",
		Tables: []core.Table{
			{
				Name: "t",
				Columns: []core.Column{
					{Name: "id", SQLType: core.BigInt, Indexed: true},
					{Name: "x", SQLType: core.Double, Nullable: true},
				},
				PrimaryKey: "id",
			},
		},
	}
	a := NewAnalyzer(schema)
	stmt := mustParse(t, "SELECT * FROM t WHERE x > 1.0")
	_, err := a.Analyze(stmt, nil)
	if !golemerrors.Is(err, golemerrors.KindNotSupported) {
		t.Fatalf("expected NotSupportedError, got %v", err)
	}
}

func mustParse(t *testing.T, text string) Statement {
	t.Helper()
	stmt, err := NewParser(text).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return stmt
}

func TestAnalyzeCreateTable(t *testing.T) {
	schema := &core.Schema{ID: "test"}
	a := NewAnalyzer(schema)
	stmt := mustParse(t, "CREATE TABLE t (id BIGINT PRIMARY KEY, name VARCHAR(20))")
	plan, err := a.Analyze(stmt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Kind != DdlPlan {
		t.Fatalf("got kind %d", plan.Kind)
	}
	if err := plan.Ddl.Mutate(schema); err != nil {
		t.Fatal(err)
	}
	tbl, ok := schema.Table("t")
	if !ok {
		t.Fatal("expected table t to be created")
	}
	idCol, _ := tbl.Column("id")
	if !idCol.Indexed {
		t.Errorf("primary key column should be indexed")
	}
}

func TestAnalyzeInsertResolvesParams(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "INSERT INTO users (id, name, balance) VALUES (%(id)s, %(name)s, %(balance)s)")
	plan, err := a.Analyze(stmt, map[string]any{
		"id":      int64(7),
		"name":    "alice",
		"balance": "12.50",
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Kind != InsertPlan {
		t.Fatalf("got kind %d", plan.Kind)
	}
	if plan.Insert.Values["id"] != int64(7) || plan.Insert.Values["name"] != "alice" || plan.Insert.Values["balance"] != "12.50" {
		t.Errorf("got %+v", plan.Insert.Values)
	}
}

func TestAnalyzeInsertMissingParam(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "INSERT INTO users (id) VALUES (%(id)s)")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected missing-parameter error")
	}
}

func TestAnalyzeInsertUnknownColumn(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "INSERT INTO users (nope) VALUES (1)")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected unknown-column error")
	}
}

func TestAnalyzeInsertRejectsFloatForDecimal(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "INSERT INTO users (id, balance) VALUES (1, 12.5)")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected DataError for float literal against a DECIMAL column")
	}
}

func TestAnalyzeInsertMissingNotNullColumn(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "INSERT INTO users (id) VALUES (1)")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected IntegrityError for missing NOT NULL column 'name'")
	}
}

func TestAnalyzeSelectWithWhere(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "SELECT id, name FROM users WHERE active AND id > %(minId)s")
	plan, err := a.Analyze(stmt, map[string]any{"minId": int64(5)})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Kind != SelectPlan {
		t.Fatalf("got kind %d", plan.Kind)
	}
	and, ok := plan.Select.Where.(ResolvedAnd)
	if !ok {
		t.Fatalf("got %T", plan.Select.Where)
	}
	left, ok := and.Left.(ResolvedComparison)
	if !ok || left.Column != "active" || left.Value != true {
		t.Errorf("got %+v", and.Left)
	}
	right, ok := and.Right.(ResolvedComparison)
	if !ok || right.Value != int64(5) {
		t.Errorf("got %+v", and.Right)
	}
}

func TestAnalyzeSelectUnknownColumn(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "SELECT nope FROM users")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected unknown-column error")
	}
}

func TestAnalyzeUpdateRejectsPrimaryKeyMutation(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "UPDATE users SET id = 2 WHERE id = 1")
	_, err := a.Analyze(stmt, nil)
	if err == nil {
		t.Fatal("expected error updating primary key column")
	}
}

func TestAnalyzeDeleteResolvesWhere(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "DELETE FROM users WHERE balance IS NULL")
	plan, err := a.Analyze(stmt, nil)
	if err != nil {
		t.Fatal(err)
	}
	isn, ok := plan.Delete.Where.(ResolvedIsNull)
	if !ok || isn.Column != "balance" || isn.Negate {
		t.Errorf("got %+v", plan.Delete.Where)
	}
}

func TestAnalyzeDescribeTable(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "DESCRIBE users")
	plan, err := a.Analyze(stmt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.DescribeTable.Table.Name != "users" {
		t.Errorf("got %+v", plan.DescribeTable.Table)
	}
}

func TestAnalyzeShowTables(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "SHOW TABLES")
	plan, err := a.Analyze(stmt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Kind != ShowTablesPlan {
		t.Errorf("got kind %d", plan.Kind)
	}
}

func TestAnalyzeSelectConstant(t *testing.T) {
	a := NewAnalyzer(usersSchema())
	stmt := mustParse(t, "SELECT 1")
	plan, err := a.Analyze(stmt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plan.SelectConstant != int64(1) {
		t.Errorf("got %+v", plan.SelectConstant)
	}
}
