// Package catalog persists a core.Schema to a per-schema_id file (spec
// §4.2): a single declarative, TOML-formatted table-of-tables written
// atomically (temp file + rename) and, in Store, committed to a git object
// store for an audit trail of DDL history.
//
// A Store is opened once per process and holds every schema the process has
// touched; ApplyDDL is the only mutation entry point, so every schema change
// leaves a corresponding commit.
package catalog
