package sql

import "testing"

func TestParseCreateTable(t *testing.T) {
	stmt, err := NewParser(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		balance DECIMAL(10,2) DEFAULT 0
	)`).Parse()
	if err != nil {
		t.Fatal(err)
	}
	ct, ok := stmt.(CreateTableStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if ct.Table != "users" || ct.PrimaryKey != "id" {
		t.Errorf("got %+v", ct)
	}
	if len(ct.Columns) != 3 {
		t.Fatalf("got %d columns, want 3: %+v", len(ct.Columns), ct.Columns)
	}
	if ct.Columns[1].Nullable {
		t.Errorf("name column should be NOT NULL")
	}
	if ct.Columns[2].TypeDecl != "DECIMAL(10,2)" {
		t.Errorf("got type decl %q", ct.Columns[2].TypeDecl)
	}
	if !ct.Columns[2].HasDefault || ct.Columns[2].Default != "0" {
		t.Errorf("got default %+v", ct.Columns[2])
	}
}

func TestParseCreateTableGeneratorDefault(t *testing.T) {
	stmt, err := NewParser(`CREATE TABLE orders (
		id INTEGER PRIMARY KEY DEFAULT autoincrement,
		placed_at DATETIME DEFAULT current_timestamp,
		customer VARCHAR(32)
	)`).Parse()
	if err != nil {
		t.Fatal(err)
	}
	ct, ok := stmt.(CreateTableStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if ct.Columns[0].Default != "autoincrement" {
		t.Errorf("id default = %q, want autoincrement", ct.Columns[0].Default)
	}
	if ct.Columns[1].Default != "current_timestamp" {
		t.Errorf("placed_at default = %q, want current_timestamp", ct.Columns[1].Default)
	}
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := NewParser("CREATE UNIQUE INDEX idx_email ON users(email)").Parse()
	if err != nil {
		t.Fatal(err)
	}
	ci, ok := stmt.(CreateIndexStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if !ci.Unique || ci.Name != "idx_email" || ci.Table != "users" || ci.Column != "email" {
		t.Errorf("got %+v", ci)
	}
}

func TestParseDropTableAndIndex(t *testing.T) {
	stmt, err := NewParser("DROP TABLE users").Parse()
	if err != nil {
		t.Fatal(err)
	}
	if dt, ok := stmt.(DropTableStatement); !ok || dt.Table != "users" {
		t.Fatalf("got %+v", stmt)
	}

	stmt, err = NewParser("DROP INDEX idx_email ON users").Parse()
	if err != nil {
		t.Fatal(err)
	}
	if di, ok := stmt.(DropIndexStatement); !ok || di.Name != "idx_email" || di.Table != "users" {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseAlterTableAddColumn(t *testing.T) {
	stmt, err := NewParser("ALTER TABLE users ADD COLUMN age INTEGER").Parse()
	if err != nil {
		t.Fatal(err)
	}
	at, ok := stmt.(AlterTableAddColumnStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if at.Table != "users" || at.Column.Name != "age" || at.Column.TypeDecl != "INTEGER" {
		t.Errorf("got %+v", at)
	}
}

func TestParseAlterTableAddConstraint(t *testing.T) {
	stmt, err := NewParser("ALTER TABLE users ADD CONSTRAINT pk_users PRIMARY KEY (id)").Parse()
	if err != nil {
		t.Fatal(err)
	}
	ac, ok := stmt.(AlterTableAddConstraintStatement)
	if !ok || ac.Table != "users" || ac.Column != "id" {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := NewParser(`INSERT INTO users (id, name) VALUES (%(id)s, 'bob')`).Parse()
	if err != nil {
		t.Fatal(err)
	}
	ins, ok := stmt.(InsertStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if len(ins.Columns) != 2 || len(ins.Values) != 2 {
		t.Fatalf("got %+v", ins)
	}
	if ins.Values[0].Param != "id" {
		t.Errorf("got %+v", ins.Values[0])
	}
	if ins.Values[1].Literal == nil || ins.Values[1].Literal.Str != "bob" {
		t.Errorf("got %+v", ins.Values[1])
	}
}

func TestParseInsertColumnValueMismatch(t *testing.T) {
	_, err := NewParser("INSERT INTO users (id, name) VALUES (1)").Parse()
	if err == nil {
		t.Fatal("expected error for column/value count mismatch")
	}
}

func TestParseUpdate(t *testing.T) {
	stmt, err := NewParser(`UPDATE users SET name = 'carol', age = 30 WHERE id = %(id)s`).Parse()
	if err != nil {
		t.Fatal(err)
	}
	upd, ok := stmt.(UpdateStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if len(upd.Sets) != 2 {
		t.Fatalf("got %+v", upd.Sets)
	}
	if upd.Where == nil {
		t.Fatal("expected WHERE clause")
	}
	cmp, ok := upd.Where.(Comparison)
	if !ok || cmp.Column != "id" {
		t.Errorf("got %+v", upd.Where)
	}
}

func TestParseDelete(t *testing.T) {
	stmt, err := NewParser("DELETE FROM users WHERE age < 18").Parse()
	if err != nil {
		t.Fatal(err)
	}
	del, ok := stmt.(DeleteStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	cmp, ok := del.Where.(Comparison)
	if !ok || cmp.Op != OpLessThan {
		t.Errorf("got %+v", del.Where)
	}
}

func TestParseSelectFull(t *testing.T) {
	stmt, err := NewParser(`SELECT id, name FROM users WHERE age >= 18 AND (name LIKE 'bob%' OR NOT active) ORDER BY id DESC LIMIT 10 OFFSET 5`).Parse()
	if err != nil {
		t.Fatal(err)
	}
	sel, ok := stmt.(SelectStatement)
	if !ok {
		t.Fatalf("got %T", stmt)
	}
	if len(sel.Columns) != 2 {
		t.Fatalf("got %+v", sel.Columns)
	}
	and, ok := sel.Where.(And)
	if !ok {
		t.Fatalf("expected top-level And, got %T", sel.Where)
	}
	if _, ok := and.Left.(Comparison); !ok {
		t.Errorf("expected left to be Comparison, got %T", and.Left)
	}
	or, ok := and.Right.(Or)
	if !ok {
		t.Fatalf("expected right to be Or, got %T", and.Right)
	}
	if _, ok := or.Right.(Not); !ok {
		t.Errorf("expected NOT active on the right of OR, got %T", or.Right)
	}
	if len(sel.OrderBy) != 1 || !sel.OrderBy[0].Descending {
		t.Errorf("got %+v", sel.OrderBy)
	}
	if sel.Limit == nil || *sel.Limit != 10 {
		t.Errorf("got limit %v", sel.Limit)
	}
	if sel.Offset == nil || *sel.Offset != 5 {
		t.Errorf("got offset %v", sel.Offset)
	}
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM users").Parse()
	if err != nil {
		t.Fatal(err)
	}
	sel, ok := stmt.(SelectStatement)
	if !ok || len(sel.Columns) != 0 {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseSelectIsNull(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM users WHERE deleted_at IS NOT NULL").Parse()
	if err != nil {
		t.Fatal(err)
	}
	sel := stmt.(SelectStatement)
	isn, ok := sel.Where.(IsNull)
	if !ok || !isn.Negate || isn.Column != "deleted_at" {
		t.Errorf("got %+v", sel.Where)
	}
}

func TestParseSelectConstant(t *testing.T) {
	stmt, err := NewParser("SELECT 1").Parse()
	if err != nil {
		t.Fatal(err)
	}
	sc, ok := stmt.(SelectConstantStatement)
	if !ok || sc.Value.Literal == nil || sc.Value.Literal.Int != 1 {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseShowTables(t *testing.T) {
	stmt, err := NewParser("SHOW TABLES").Parse()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stmt.(ShowTablesStatement); !ok {
		t.Fatalf("got %T", stmt)
	}
}

func TestParseDescribe(t *testing.T) {
	stmt, err := NewParser("DESCRIBE users").Parse()
	if err != nil {
		t.Fatal(err)
	}
	dt, ok := stmt.(DescribeTableStatement)
	if !ok || dt.Table != "users" {
		t.Fatalf("got %+v", stmt)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewParser("SELECT FROM FROM WHERE").Parse()
	if err == nil {
		t.Fatal("expected a parse error")
	}
}
