package golemdbsql

import (
	"context"
	"testing"

	"github.com/golemdb/golemdb-sql-go/adapter"
	"github.com/golemdb/golemdb-sql-go/store"
)

func TestOpenWithClientRoundTrip(t *testing.T) {
	inst, err := OpenWithClient(adapter.ConnParams{AppID: "demo", SchemaID: "s1"}, store.NewMock(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	cur := inst.NewCursor()
	defer cur.Close()

	ctx := context.Background()
	if err := cur.Execute(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(64))", nil); err != nil {
		t.Fatal(err)
	}
	if err := cur.Execute(ctx, "INSERT INTO users (id, name) VALUES (1, 'Alice')", nil); err != nil {
		t.Fatal(err)
	}
	if err := cur.Execute(ctx, "SELECT id, name FROM users WHERE id = %(id)s", map[string]any{"id": int64(1)}); err != nil {
		t.Fatal(err)
	}

	rows, err := cur.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Alice" {
		t.Fatalf("got %+v", rows)
	}
}

func TestOpenRejectsIncompleteConnectionString(t *testing.T) {
	if _, err := Open("golembase://key@rpc.example.com/ws.example.com", Options{}); err == nil {
		t.Fatal("expected error for missing app_id/schema_id")
	}
}
