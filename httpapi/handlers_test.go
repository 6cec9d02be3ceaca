package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golemdb/golemdb-sql-go/adapter"
	"github.com/golemdb/golemdb-sql-go/catalog"
	"github.com/golemdb/golemdb-sql-go/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.OpenMemoryStore()
	if err != nil {
		t.Fatal(err)
	}
	conn, err := adapter.Open(adapter.ConnParams{
		RPCURL: "https://rpc.example.com", WSURL: "wss://ws.example.com",
		PrivateKey: "1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcd",
		AppID:      "testapp", SchemaID: "s1",
	}, store.NewMock(), cat)
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(conn, "test")
}

func doExecute(t *testing.T, s *Server, sql string, params map[string]any) (*httptest.ResponseRecorder, executeResponse) {
	t.Helper()
	body, err := json.Marshal(executeRequest{SQL: sql, Params: params})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/execute", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if err := s.execute(c); err != nil {
		t.Fatal(err)
	}
	var resp executeResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
	}
	return rec, resp
}

func TestExecuteDDLThenDML(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doExecute(t, s, "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name VARCHAR(32))", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("CREATE TABLE status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, _ = doExecute(t, s, "INSERT INTO widgets (id, name) VALUES (1, 'sprocket')", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("INSERT status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, resp := doExecute(t, s, "SELECT id, name FROM widgets WHERE id = %(id)s", map[string]any{"id": int64(1)})
	if rec.Code != http.StatusOK {
		t.Fatalf("SELECT status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp.RowCount != 1 || len(resp.Rows) != 1 {
		t.Fatalf("got %+v", resp)
	}
	if resp.Rows[0]["name"] != "sprocket" {
		t.Errorf("name = %v", resp.Rows[0]["name"])
	}
}

func TestExecuteRejectsEmptySQL(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doExecute(t, s, "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExecuteUnknownTableIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doExecute(t, s, "SELECT * FROM ghosts", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestShowTablesAndDescribeEndpoints(t *testing.T) {
	s := newTestServer(t)
	doExecute(t, s, "CREATE TABLE widgets (id INTEGER PRIMARY KEY, name VARCHAR(32))", nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/tables", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if err := s.showTables(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["table_name"] != "widgets" {
		t.Fatalf("got %v", rows)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/tables/widgets", nil)
	rec = httptest.NewRecorder()
	c = s.echo.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("widgets")
	if err := s.describeTable(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if err := s.healthz(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
