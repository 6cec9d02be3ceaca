// Package golemdbsql provides a relational SQL adapter over a
// content-addressed, annotation-indexed entity store.
//
// It stores rows as opaque payloads with string and numeric annotations in
// a GolemBase-style key/value backend, and layers a schema catalog, a SQL
// front end, and a query translator on top so that CREATE TABLE, INSERT,
// SELECT, UPDATE, and DELETE compile down to entity operations and
// annotation-predicate queries against that backend.
//
// # Quick Start
//
// Open a connection against an in-memory mock backend for local
// experimentation:
//
//	client := store.NewMock()
//	cat, _ := catalog.OpenMemoryStore()
//	conn, _ := adapter.Open(adapter.ConnParams{AppID: "demo", SchemaID: "default"}, client, cat)
//	cur := conn.NewCursor()
//	cur.Execute(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(64))", nil)
//	cur.Execute(ctx, "INSERT INTO users (id, name) VALUES (1, 'Alice')", nil)
//	cur.Execute(ctx, "SELECT * FROM users", nil)
//	rows, _ := cur.FetchAll()
//
// Open mints that same wiring from a connection string and a real RPC
// endpoint.
//
// # Supported SQL
//
//   - CREATE/DROP/ALTER TABLE
//   - CREATE/DROP INDEX
//   - INSERT, SELECT, UPDATE, DELETE
//   - WHERE with comparison, boolean, IS [NOT] NULL, and LIKE predicates;
//     IN lists are not supported
//   - ORDER BY, LIMIT, OFFSET
//   - Named parameters (%(name)s style); positional parameters are not
//     supported
//   - SHOW TABLES, DESCRIBE
package golemdbsql
