package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/golemdb/golemdb-sql-go/adapter"
	"github.com/golemdb/golemdb-sql-go/adminsession"
	"github.com/golemdb/golemdb-sql-go/catalog"
	"github.com/golemdb/golemdb-sql-go/internal/logging"
	"github.com/golemdb/golemdb-sql-go/store"
)

// rootFlags holds the connection settings every subcommand shares.
type rootFlags struct {
	connString  string
	catalogDir  string
	adminSecret string
	adminIssuer string
	useMock     bool
	verbose     bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	// A local .env is optional; a missing file is not an error, matching
	// how config-from-env tools in the ecosystem treat it.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "golemdb-sql",
		Short:   "Relational SQL adapter over a content-addressed entity store",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				logging.SetDebugMode()
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.connString, "conn", os.Getenv("GOLEMDB_CONN"),
		"connection string (golembase://... or space-separated key=value pairs)")
	root.PersistentFlags().StringVar(&flags.catalogDir, "catalog-dir", os.Getenv("GOLEMDB_CATALOG_DIR"),
		"directory for the git-backed schema catalog (memory catalog if empty)")
	root.PersistentFlags().StringVar(&flags.adminSecret, "admin-secret", os.Getenv("GOLEMDB_ADMIN_SECRET"),
		"HS256 secret gating DDL statements (DDL runs unauthenticated if empty)")
	root.PersistentFlags().StringVar(&flags.adminIssuer, "admin-issuer", "golemdb-sql",
		"expected issuer claim on admin session tokens")
	root.PersistentFlags().BoolVar(&flags.useMock, "mock", os.Getenv("GOLEMDB_MOCK") != "",
		"use an in-memory mock backing store instead of a live RPC endpoint")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newExecCommand(flags))
	root.AddCommand(newReplCommand(flags))
	root.AddCommand(newServeCommand(flags))
	root.AddCommand(newTokenCommand(flags))

	return root
}

const rpcTimeout = 30 * time.Second

// resolveConnectionParams prefers an explicit --conn/GOLEMDB_CONN string;
// with none set, it falls back to discrete GOLEMDB_RPC_URL/WS_URL/
// PRIVATE_KEY/APP_ID/SCHEMA_ID environment variables (spec §6.2).
func (f *rootFlags) resolveConnectionParams() (adapter.ConnParams, error) {
	if f.connString != "" {
		return adapter.ParseConnectionString(f.connString)
	}
	return adapter.ParseConnectionParams()
}

// openConnection builds a Connection from the shared root flags: parses
// the connection string (skipped entirely under --mock, which needs no
// real endpoint), opens the catalog, and wires the admin session manager
// when a secret is configured.
func (f *rootFlags) openConnection() (*adapter.Connection, error) {
	var client store.Client
	var params adapter.ConnParams

	if f.useMock {
		client = store.NewMock()
		params = adapter.ConnParams{AppID: "local", SchemaID: "default"}
	} else {
		parsed, err := f.resolveConnectionParams()
		if err != nil {
			return nil, err
		}
		params = parsed
		client = store.NewRPCClient(parsed.RPCURL, rpcTimeout)
	}

	var catalogStore *catalog.Store
	var err error
	if f.catalogDir == "" {
		catalogStore, err = catalog.OpenMemoryStore()
	} else {
		catalogStore, err = catalog.OpenFileStore(f.catalogDir)
	}
	if err != nil {
		return nil, err
	}

	conn, err := adapter.Open(params, client, catalogStore)
	if err != nil {
		return nil, err
	}

	if f.adminSecret != "" {
		conn.Admin = adminsession.NewManager(adminsession.Config{
			Secret: f.adminSecret,
			Issuer: f.adminIssuer,
		})
	}

	return conn, nil
}
