package adminsession

import "testing"

func TestMintAndVerifyRoundTrip(t *testing.T) {
	m := NewManager(Config{Secret: "sekrit", Issuer: "golemdb-sql"})
	token, err := m.Mint("alice")
	if err != nil {
		t.Fatal(err)
	}
	id, err := m.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if id.Subject != "alice" {
		t.Errorf("subject = %q, want alice", id.Subject)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m1 := NewManager(Config{Secret: "sekrit1"})
	m2 := NewManager(Config{Secret: "sekrit2"})
	token, err := m1.Mint("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m2.Verify(token); err == nil {
		t.Fatal("expected verification with a different secret to fail")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	m1 := NewManager(Config{Secret: "sekrit", Issuer: "issuer-a"})
	m2 := NewManager(Config{Secret: "sekrit", Issuer: "issuer-b"})
	token, err := m1.Mint("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m2.Verify(token); err == nil {
		t.Fatal("expected verification with a mismatched issuer to fail")
	}
}

func TestRequireDDLRejectsEmptyToken(t *testing.T) {
	m := NewManager(Config{Secret: "sekrit"})
	if _, err := m.RequireDDL(""); err == nil {
		t.Fatal("expected RequireDDL to reject an empty token")
	}
}

func TestRequireDDLAcceptsValidToken(t *testing.T) {
	m := NewManager(Config{Secret: "sekrit"})
	token, err := m.Mint("bob")
	if err != nil {
		t.Fatal(err)
	}
	id, err := m.RequireDDL(token)
	if err != nil {
		t.Fatal(err)
	}
	if id.Subject != "bob" {
		t.Errorf("subject = %q, want bob", id.Subject)
	}
}
