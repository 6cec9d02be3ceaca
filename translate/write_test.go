package translate

import (
	"context"
	"testing"

	"github.com/golemdb/golemdb-sql-go/core"
	"github.com/golemdb/golemdb-sql-go/serialize"
	"github.com/golemdb/golemdb-sql-go/sql"
	"github.com/golemdb/golemdb-sql-go/store"
)

func ordersSchema() *core.Schema {
	return &core.Schema{
		ID: "s1",
		Tables: []core.Table{
			{
				Name: "orders",
				Columns: []core.Column{
					{Name: "id", SQLType: core.BigInt, Indexed: true, Default: "autoincrement"},
					{Name: "customer", SQLType: core.Varchar, Precision: 64, Indexed: true},
					{Name: "amount", SQLType: core.Decimal, Precision: 10, Scale: 2, Indexed: true},
					{Name: "shipped", SQLType: core.Boolean, Nullable: true, Indexed: true, Default: "false"},
				},
				PrimaryKey: "id",
			},
		},
	}
}

func planFor(t *testing.T, schema *core.Schema, query string, params map[string]any) *sql.Plan {
	t.Helper()
	stmt, err := sql.NewParser(query).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", query, err)
	}
	plan, err := sql.NewAnalyzer(schema).Analyze(stmt, params)
	if err != nil {
		t.Fatalf("analyze %q: %v", query, err)
	}
	return plan
}

func TestInsertAssignsAutoincrementID(t *testing.T) {
	client := store.NewMock()
	schema := ordersSchema()
	ctx := context.Background()

	plan := planFor(t, schema, `INSERT INTO orders (customer, amount) VALUES ('acme', '9.99')`, nil)
	row1, err := Insert(ctx, client, "app1", plan.Insert)
	if err != nil {
		t.Fatal(err)
	}
	if row1["id"] != int64(1) {
		t.Errorf("first insert id = %v, want 1", row1["id"])
	}
	if row1["shipped"] != false {
		t.Errorf("shipped default = %v, want false", row1["shipped"])
	}

	plan2 := planFor(t, schema, `INSERT INTO orders (customer, amount) VALUES ('acme', '4.00')`, nil)
	row2, err := Insert(ctx, client, "app1", plan2.Insert)
	if err != nil {
		t.Fatal(err)
	}
	if row2["id"] != int64(2) {
		t.Errorf("second insert id = %v, want 2", row2["id"])
	}
}

func TestSelectWithPushedDownPredicate(t *testing.T) {
	client := store.NewMock()
	schema := ordersSchema()
	ctx := context.Background()

	for _, q := range []string{
		`INSERT INTO orders (customer, amount, shipped) VALUES ('acme', '9.99', true)`,
		`INSERT INTO orders (customer, amount, shipped) VALUES ('other', '1.00', false)`,
	} {
		p := planFor(t, schema, q, nil)
		if _, err := Insert(ctx, client, "app1", p.Insert); err != nil {
			t.Fatal(err)
		}
	}

	plan := planFor(t, schema, `SELECT customer FROM orders WHERE shipped`, nil)
	rows, err := Select(ctx, client, "app1", plan.Select)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["customer"] != "acme" {
		t.Fatalf("got %+v", rows)
	}
}

func TestUpdateAndDeleteRoundTrip(t *testing.T) {
	client := store.NewMock()
	schema := ordersSchema()
	ctx := context.Background()

	p := planFor(t, schema, `INSERT INTO orders (customer, amount) VALUES ('acme', '9.99')`, nil)
	if _, err := Insert(ctx, client, "app1", p.Insert); err != nil {
		t.Fatal(err)
	}

	upd := planFor(t, schema, `UPDATE orders SET shipped = true WHERE customer = 'acme'`, nil)
	n, err := Update(ctx, client, "app1", upd.Update)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("updated %d rows, want 1", n)
	}

	sel := planFor(t, schema, `SELECT * FROM orders WHERE shipped`, nil)
	rows, err := Select(ctx, client, "app1", sel.Select)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %+v", rows)
	}

	del := planFor(t, schema, `DELETE FROM orders WHERE customer = 'acme'`, nil)
	n, err = Delete(ctx, client, "app1", del.Delete)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deleted %d rows, want 1", n)
	}

	sel2 := planFor(t, schema, `SELECT * FROM orders`, nil)
	rows, err = Select(ctx, client, "app1", sel2.Select)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows after delete, got %+v", rows)
	}
}

func TestTenantScopingIsolatesApps(t *testing.T) {
	client := store.NewMock()
	schema := ordersSchema()
	ctx := context.Background()

	p1 := planFor(t, schema, `INSERT INTO orders (customer, amount) VALUES ('acme', '1.00')`, nil)
	if _, err := Insert(ctx, client, "app1", p1.Insert); err != nil {
		t.Fatal(err)
	}
	p2 := planFor(t, schema, `INSERT INTO orders (customer, amount) VALUES ('other', '2.00')`, nil)
	if _, err := Insert(ctx, client, "app2", p2.Insert); err != nil {
		t.Fatal(err)
	}

	sel := planFor(t, schema, `SELECT customer FROM orders`, nil)
	rows, err := Select(ctx, client, "app1", sel.Select)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["customer"] != "acme" {
		t.Fatalf("app1 should only see its own rows, got %+v", rows)
	}
}

func TestSelectOrderByDecimalSortsNumerically(t *testing.T) {
	client := store.NewMock()
	schema := ordersSchema()
	ctx := context.Background()

	for _, q := range []string{
		`INSERT INTO orders (customer, amount) VALUES ('a', '-10.50')`,
		`INSERT INTO orders (customer, amount) VALUES ('b', '0.00')`,
		`INSERT INTO orders (customer, amount) VALUES ('c', '9.00')`,
		`INSERT INTO orders (customer, amount) VALUES ('d', '10.50')`,
	} {
		p := planFor(t, schema, q, nil)
		if _, err := Insert(ctx, client, "app1", p.Insert); err != nil {
			t.Fatal(err)
		}
	}

	sel := planFor(t, schema, `SELECT customer FROM orders ORDER BY amount`, nil)
	rows, err := Select(ctx, client, "app1", sel.Select)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "d"}
	if len(rows) != len(want) {
		t.Fatalf("got %+v", rows)
	}
	for i, w := range want {
		if rows[i]["customer"] != w {
			t.Fatalf("row %d = %v, want customer %q (byte-lexical DECIMAL sort would put 'd' before 'c')", i, rows[i], w)
		}
	}
}

func TestRelationAnnotationMatchesConvention(t *testing.T) {
	if got := serialize.Relation("app1", "orders"); got != "app1.orders" {
		t.Errorf("Relation = %q", got)
	}
}
