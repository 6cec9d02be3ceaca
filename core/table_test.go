package core

import "testing"

func sampleTable() Table {
	return Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", SQLType: BigInt, Indexed: true},
			{Name: "name", SQLType: Varchar, Precision: 100},
			{Name: "age", SQLType: Integer, Indexed: true},
		},
		PrimaryKey: "id",
	}
}

func TestTableValidate(t *testing.T) {
	tbl := sampleTable()
	if err := tbl.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTableValidateDuplicateColumn(t *testing.T) {
	tbl := sampleTable()
	tbl.Columns = append(tbl.Columns, Column{Name: "id", SQLType: Integer})
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for duplicate column")
	}
}

func TestTableValidatePrimaryKeyMustBeIndexed(t *testing.T) {
	tbl := sampleTable()
	tbl.PrimaryKey = "name"
	if err := tbl.Validate(); err == nil {
		t.Error("expected error: primary key column must be indexed")
	}
}

func TestTableValidatePrimaryKeyUnknownColumn(t *testing.T) {
	tbl := sampleTable()
	tbl.PrimaryKey = "nonexistent"
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for primary key referencing unknown column")
	}
}

func TestTableColumnLookup(t *testing.T) {
	tbl := sampleTable()
	c, ok := tbl.Column("age")
	if !ok || c.SQLType != Integer {
		t.Errorf("expected to find age column of type Integer, got %+v ok=%v", c, ok)
	}
	if _, ok := tbl.Column("missing"); ok {
		t.Error("expected missing column to not be found")
	}
}

func TestTableValidateIndexUnknownColumn(t *testing.T) {
	tbl := sampleTable()
	tbl.Indexes = append(tbl.Indexes, Index{Name: "idx_bad", ColumnName: "nope"})
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for index on unknown column")
	}
}
