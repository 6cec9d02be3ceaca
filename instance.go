package golemdbsql

import (
	"time"

	"github.com/golemdb/golemdb-sql-go/adapter"
	"github.com/golemdb/golemdb-sql-go/catalog"
	"github.com/golemdb/golemdb-sql-go/store"
)

const defaultRPCTimeout = 30 * time.Second

// Instance is the top-level handle a program opens once and shares: it
// binds a connection string to a backing-store client and a catalog
// directory.
type Instance struct {
	Conn *adapter.Connection
}

// Options configures Open. CatalogDir selects a git-backed file catalog;
// an empty CatalogDir uses a process-local memory catalog instead, which
// is useful for tests and short-lived tooling but does not survive
// restarts.
type Options struct {
	CatalogDir string
	RPCTimeout time.Duration
}

// Open parses connString, dials the RPC endpoint it names, and opens (or
// creates) the schema catalog at opts.CatalogDir.
func Open(connString string, opts Options) (*Instance, error) {
	params, err := adapter.ParseConnectionString(connString)
	if err != nil {
		return nil, err
	}

	timeout := opts.RPCTimeout
	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}
	client := store.NewRPCClient(params.RPCURL, timeout)

	return OpenWithClient(params, client, opts)
}

// OpenWithClient wires an already-constructed client (a mock store in
// tests, or a client the caller configured directly) instead of dialing
// one from params.RPCURL.
func OpenWithClient(params adapter.ConnParams, client store.Client, opts Options) (*Instance, error) {
	var (
		catalogStore *catalog.Store
		err          error
	)
	if opts.CatalogDir == "" {
		catalogStore, err = catalog.OpenMemoryStore()
	} else {
		catalogStore, err = catalog.OpenFileStore(opts.CatalogDir)
	}
	if err != nil {
		return nil, err
	}

	conn, err := adapter.Open(params, client, catalogStore)
	if err != nil {
		return nil, err
	}
	return &Instance{Conn: conn}, nil
}

// NewCursor is shorthand for Instance.Conn.NewCursor.
func (i *Instance) NewCursor() *adapter.Cursor {
	return i.Conn.NewCursor()
}
