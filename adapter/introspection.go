package adapter

import "github.com/golemdb/golemdb-sql-go/core"

// execShowTables answers SHOW TABLES entirely from the cached schema
// snapshot, never touching the backing store.
func (c *Cursor) execShowTables() error {
	tables := c.conn.Schema().Tables
	rows := make([]map[string]any, len(tables))
	for i, tbl := range tables {
		rows[i] = map[string]any{"table_name": tbl.Name}
	}
	c.columns = []string{"table_name"}
	c.description = []ColumnDescription{{Name: "table_name", SQLType: core.Varchar}}
	c.rows = rows
	c.rowCount = len(rows)
	return nil
}

// execDescribeTable answers DESCRIBE <table> from the cached schema
// snapshot: one row per column, in declaration order.
func (c *Cursor) execDescribeTable(tbl *core.Table) error {
	rows := make([]map[string]any, len(tbl.Columns))
	for i, col := range tbl.Columns {
		rows[i] = map[string]any{
			"column_name": col.Name,
			"type":        col.SQLType.String(),
			"nullable":    col.Nullable,
			"default":     col.Default,
			"indexed":     col.Indexed,
			"primary_key": col.Name == tbl.PrimaryKey,
		}
	}
	c.columns = []string{"column_name", "type", "nullable", "default", "indexed", "primary_key"}
	c.description = []ColumnDescription{
		{Name: "column_name", SQLType: core.Varchar},
		{Name: "type", SQLType: core.Varchar},
		{Name: "nullable", SQLType: core.Boolean},
		{Name: "default", SQLType: core.Varchar},
		{Name: "indexed", SQLType: core.Boolean},
		{Name: "primary_key", SQLType: core.Boolean},
	}
	c.rows = rows
	c.rowCount = len(rows)
	return nil
}

// execSelectConstant answers a literal-only SELECT (e.g. "SELECT 1", used
// by connection health checks) without any table or backing-store access.
func (c *Cursor) execSelectConstant(value any) error {
	c.columns = []string{"value"}
	c.description = []ColumnDescription{{Name: "value", SQLType: sqlTypeOfLiteral(value)}}
	c.rows = []map[string]any{{"value": value}}
	c.rowCount = 1
	return nil
}

func sqlTypeOfLiteral(v any) core.SQLType {
	switch v.(type) {
	case int64:
		return core.BigInt
	case float64:
		return core.Double
	case bool:
		return core.Boolean
	case nil:
		return core.Varchar
	default:
		return core.Varchar
	}
}
