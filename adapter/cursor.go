package adapter

import (
	"context"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/sql"
	"github.com/golemdb/golemdb-sql-go/translate"
)

// ColumnDescription is the Go analogue of a DB-API 2.0 description entry:
// name and declared type are always populated, the remaining PEP 249
// fields (display size, precision, scale, null_ok) are omitted since the
// backing store never reports them.
type ColumnDescription struct {
	Name    string
	SQLType core.SQLType
}

// Cursor executes one statement at a time against the Connection that
// created it and iterates the resulting rows, the Go equivalent of
// golemdb_sql's DB-API 2.0 Cursor: fetchone/fetchmany/fetchall become
// FetchOne/FetchMany/FetchAll returning (row, ok, error) instead of
// raising StopIteration.
type Cursor struct {
	conn   *Connection
	closed bool

	// AdminToken, if set, is presented to the connection's admin session
	// manager for DDL statements; it is not part of the DB-API surface
	// proper (execute takes no auth parameter in PEP 249) so it is a
	// plain field a caller sets once after authenticating.
	AdminToken string

	arraySize   int
	columns     []string
	description []ColumnDescription
	rows        []map[string]any
	position    int
	rowCount    int
}

// newCursor builds the Cursor that Connection.NewCursor returns.
func newCursor(conn *Connection) *Cursor {
	return &Cursor{conn: conn, arraySize: 1, rowCount: -1}
}

// Connection returns the Connection that created this cursor.
func (c *Cursor) Connection() *Connection { return c.conn }

// ArraySize is the row count FetchMany uses when called without an
// explicit size; it defaults to 1 and must stay positive.
func (c *Cursor) ArraySize() int { return c.arraySize }

func (c *Cursor) SetArraySize(n int) error {
	if n < 1 {
		return golemerrors.ProgrammingError("array size must be positive")
	}
	c.arraySize = n
	return nil
}

// Description reports the result columns of the last SELECT/SHOW/DESCRIBE
// or INSERT (whose result set is the row as written, generated values
// included), or nil after UPDATE, DELETE, and DDL.
func (c *Cursor) Description() []ColumnDescription { return c.description }

// RowCount is the number of rows the last Execute produced (SELECT) or
// affected (INSERT/UPDATE/DELETE), or -1 if unknown or not yet run.
func (c *Cursor) RowCount() int { return c.rowCount }

// Close renders the cursor unusable; further calls return an
// InterfaceError, matching PEP 249's close() contract.
func (c *Cursor) Close() error {
	c.closed = true
	c.rows = nil
	c.columns = nil
	c.description = nil
	c.rowCount = -1
	c.position = 0
	return nil
}

func (c *Cursor) checkOpen() error {
	if c.closed {
		return golemerrors.InterfaceError("cursor is closed")
	}
	return nil
}

// Execute parses, analyzes, and runs a single SQL statement, resetting the
// cursor's result state beforehand. Named parameters are supplied without
// the "%()s" wrapping, e.g. params["id"] for a "%(id)s" placeholder.
func (c *Cursor) Execute(ctx context.Context, query string, params map[string]any) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	c.rows = nil
	c.columns = nil
	c.description = nil
	c.rowCount = -1
	c.position = 0

	stmt, err := sql.NewParser(query).Parse()
	if err != nil {
		return golemerrors.ProgrammingError("parsing statement: %v", err)
	}

	plan, err := c.conn.analyzer().Analyze(stmt, params)
	if err != nil {
		return err
	}

	switch plan.Kind {
	case sql.DdlPlan:
		return c.conn.applyDDL(c.AdminToken, plan.Ddl.Message, plan.Ddl.Mutate)

	case sql.InsertPlan:
		row, err := translate.Insert(ctx, c.conn.Client, c.conn.Params.AppID, plan.Insert)
		if err != nil {
			return err
		}
		c.rowCount = 1
		c.setResultFromTable(plan.Insert.Table, nil, []map[string]any{row})
		return nil

	case sql.UpdatePlan:
		n, err := translate.Update(ctx, c.conn.Client, c.conn.Params.AppID, plan.Update)
		if err != nil {
			return err
		}
		c.rowCount = n
		return nil

	case sql.DeletePlan:
		n, err := translate.Delete(ctx, c.conn.Client, c.conn.Params.AppID, plan.Delete)
		if err != nil {
			return err
		}
		c.rowCount = n
		return nil

	case sql.SelectPlan:
		rows, err := translate.Select(ctx, c.conn.Client, c.conn.Params.AppID, plan.Select)
		if err != nil {
			return err
		}
		c.rowCount = len(rows)
		c.setResultFromTable(plan.Select.Table, plan.Select.Columns, rows)
		return nil

	case sql.ShowTablesPlan:
		return c.execShowTables()

	case sql.DescribeTablePlan:
		return c.execDescribeTable(plan.DescribeTable.Table)

	case sql.SelectConstantPlan:
		return c.execSelectConstant(plan.SelectConstant)

	default:
		return golemerrors.InternalError("unhandled plan kind %v", plan.Kind)
	}
}

// ExecuteMany runs query once per entry in paramSets, summing the
// affected-row counts into the final RowCount the way golemdb_sql's
// executemany does.
func (c *Cursor) ExecuteMany(ctx context.Context, query string, paramSets []map[string]any) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	total := 0
	for _, params := range paramSets {
		if err := c.Execute(ctx, query, params); err != nil {
			return err
		}
		if c.rowCount > 0 {
			total += c.rowCount
		}
	}
	c.rowCount = total
	return nil
}

// setResultFromTable populates columns/description/rows for a result set
// that came from a real table, in the order the statement requested (or
// table-declaration order for SELECT *).
func (c *Cursor) setResultFromTable(tbl *core.Table, requested []string, rows []map[string]any) {
	names := requested
	if len(names) == 0 {
		names = make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			names[i] = col.Name
		}
	}

	desc := make([]ColumnDescription, len(names))
	for i, name := range names {
		col, _ := tbl.Column(name)
		desc[i] = ColumnDescription{Name: name, SQLType: col.SQLType}
	}

	c.columns = names
	c.description = desc
	c.rows = rows
}

// FetchOne returns the next row, or ok=false once the result set is
// exhausted, the Go analogue of fetchone() returning None.
func (c *Cursor) FetchOne() (map[string]any, bool, error) {
	if err := c.checkOpen(); err != nil {
		return nil, false, err
	}
	if c.position >= len(c.rows) {
		return nil, false, nil
	}
	row := c.rows[c.position]
	c.position++
	return row, true, nil
}

// FetchMany returns up to n rows starting from the current position. A
// non-positive n uses the cursor's ArraySize.
func (c *Cursor) FetchMany(n int) ([]map[string]any, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = c.arraySize
	}
	end := c.position + n
	if end > len(c.rows) {
		end = len(c.rows)
	}
	batch := c.rows[c.position:end]
	c.position = end
	return batch, nil
}

// FetchAll returns every remaining row.
func (c *Cursor) FetchAll() ([]map[string]any, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	rest := c.rows[c.position:]
	c.position = len(c.rows)
	return rest, nil
}
