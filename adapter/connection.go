package adapter

import (
	"github.com/golemdb/golemdb-sql-go/adminsession"
	"github.com/golemdb/golemdb-sql-go/catalog"
	"github.com/golemdb/golemdb-sql-go/core"
	"github.com/golemdb/golemdb-sql-go/sql"
	"github.com/golemdb/golemdb-sql-go/store"
)

// Connection binds a parsed connection string to a live backing-store
// client and a catalog-backed schema, the way golemdb_sql's Connection
// binds an SDK client to a schema_id. Every Cursor created from a
// Connection shares its schema and client.
type Connection struct {
	Params  ConnParams
	Client  store.Client
	Catalog *catalog.Store
	Retry   RetryPolicy
	Admin   *adminsession.Manager // nil disables DDL admin-gating

	schema *core.Schema
}

// Open loads (or lazily creates) the schema named by params.SchemaID from
// catalogStore and binds it to client, ready for cursor.Execute calls.
// client is wrapped so reads retry per the default policy; writes always
// pass straight through.
func Open(params ConnParams, client store.Client, catalogStore *catalog.Store) (*Connection, error) {
	schema, err := catalogStore.Load(params.SchemaID)
	if err != nil {
		return nil, err
	}
	policy := DefaultRetryPolicy()
	return &Connection{
		Params:  params,
		Client:  WithRetries(client, policy),
		Catalog: catalogStore,
		Retry:   policy,
		schema:  schema,
	}, nil
}

// Schema returns the connection's current in-memory schema snapshot.
func (c *Connection) Schema() *core.Schema {
	return c.schema
}

// NewCursor creates a fresh Cursor bound to this connection.
func (c *Connection) NewCursor() *Cursor {
	return newCursor(c)
}

// applyDDL runs mutate against the catalog, gated by an admin session
// token when c.Admin is configured, and refreshes the connection's cached
// schema on success.
func (c *Connection) applyDDL(adminToken, message string, mutate func(*core.Schema) error) error {
	if c.Admin != nil {
		if _, err := c.Admin.RequireDDL(adminToken); err != nil {
			return err
		}
	}
	schema, err := c.Catalog.ApplyDDL(c.Params.SchemaID, message, mutate)
	if err != nil {
		return err
	}
	c.schema = schema
	return nil
}

// analyzer returns a fresh sql.Analyzer bound to the connection's current
// schema snapshot; a new one is needed after every DDL since the schema
// pointer may have been replaced.
func (c *Connection) analyzer() *sql.Analyzer {
	return sql.NewAnalyzer(c.schema)
}
