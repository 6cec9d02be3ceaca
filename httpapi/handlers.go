package httpapi

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

type executeRequest struct {
	SQL    string         `json:"sql"`
	Params map[string]any `json:"params"`
}

type executeResponse struct {
	Columns  []string         `json:"columns,omitempty"`
	Rows     []map[string]any `json:"rows,omitempty"`
	RowCount int              `json:"row_count"`
}

// execute runs one statement against the server's connection. DDL
// statements require a Bearer admin token in the Authorization header
// when the connection has admin-gating configured.
func (s *Server) execute(c echo.Context) error {
	var req executeRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, golemerrors.InterfaceError("malformed request body: %v", err))
	}
	// JSON numbers decode as float64; whole numbers are passed on as int64
	// so they bind to integer columns.
	for k, v := range req.Params {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			req.Params[k] = int64(f)
		}
	}
	if strings.TrimSpace(req.SQL) == "" {
		return writeError(c, golemerrors.InterfaceError("sql must not be empty"))
	}

	cur := s.conn.NewCursor()
	defer cur.Close()

	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		cur.AdminToken = strings.TrimPrefix(auth, "Bearer ")
	}

	if err := cur.Execute(c.Request().Context(), req.SQL, req.Params); err != nil {
		return writeError(c, err)
	}

	rows, err := cur.FetchAll()
	if err != nil {
		return writeError(c, err)
	}

	resp := executeResponse{RowCount: cur.RowCount()}
	for _, d := range cur.Description() {
		resp.Columns = append(resp.Columns, d.Name)
	}
	resp.Rows = rows
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) showTables(c echo.Context) error {
	cur := s.conn.NewCursor()
	defer cur.Close()
	if err := cur.Execute(c.Request().Context(), "SHOW TABLES", nil); err != nil {
		return writeError(c, err)
	}
	rows, err := cur.FetchAll()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) describeTable(c echo.Context) error {
	name := c.Param("name")
	cur := s.conn.NewCursor()
	defer cur.Close()
	if err := cur.Execute(c.Request().Context(), "DESCRIBE "+name, nil); err != nil {
		return writeError(c, err)
	}
	rows, err := cur.FetchAll()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// writeError maps the taxonomy in errors/errors.go onto HTTP status codes:
// caller mistakes are 4xx, backing-store/catalog failures are 5xx.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case golemerrors.Is(err, golemerrors.KindInterface),
		golemerrors.Is(err, golemerrors.KindProgramming),
		golemerrors.Is(err, golemerrors.KindData),
		golemerrors.Is(err, golemerrors.KindIntegrity):
		status = http.StatusBadRequest
	case golemerrors.Is(err, golemerrors.KindNotSupported):
		status = http.StatusNotImplemented
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
