package core

import "testing"

func TestSchemaAddAndDropTable(t *testing.T) {
	s := Schema{ID: "tenant-a"}
	tbl := sampleTable()

	if err := s.AddTable(tbl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Table("users"); !ok {
		t.Fatal("expected to find users table")
	}
	if err := s.AddTable(tbl); err == nil {
		t.Error("expected error adding duplicate table")
	}

	if err := s.DropTable("users"); err != nil {
		t.Fatalf("unexpected error dropping table: %v", err)
	}
	if _, ok := s.Table("users"); ok {
		t.Error("expected users table to be gone")
	}
	if err := s.DropTable("users"); err == nil {
		t.Error("expected error dropping nonexistent table")
	}
}

func TestSchemaAddTableRejectsInvalid(t *testing.T) {
	s := Schema{ID: "tenant-a"}
	bad := Table{Name: "1bad", Columns: []Column{{Name: "id", SQLType: BigInt}}}
	if err := s.AddTable(bad); err == nil {
		t.Error("expected error for invalid table name")
	}
}
