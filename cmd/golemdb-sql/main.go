// Command golemdb-sql is the CLI and HTTP host for the SQL adapter: it
// opens a Connection from a connection string plus a local catalog
// directory and runs one statement, a REPL, or an HTTP server against it.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
