package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/golemdb/golemdb-sql-go/adapter"
)

func newExecCommand(flags *rootFlags) *cobra.Command {
	var adminToken string

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a single SQL statement and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := flags.openConnection()
			if err != nil {
				return err
			}
			cur := conn.NewCursor()
			cur.AdminToken = adminToken
			defer cur.Close()

			if err := cur.Execute(context.Background(), args[0], nil); err != nil {
				return err
			}
			return printCursorResult(os.Stdout, cur)
		},
	}

	cmd.Flags().StringVar(&adminToken, "admin-token", os.Getenv("GOLEMDB_ADMIN_TOKEN"),
		"admin session token presented for DDL statements")
	return cmd
}

// printCursorResult renders whatever rows a cursor accumulated as a
// fixed-width table (for INSERT, the row as written), or reports the
// affected row count for statements with no description
// (UPDATE/DELETE/DDL).
func printCursorResult(w io.Writer, cur *adapter.Cursor) error {
	desc := cur.Description()
	if len(desc) == 0 {
		fmt.Fprintf(w, "OK (%d row(s) affected)\n", cur.RowCount())
		return nil
	}

	rows, err := cur.FetchAll()
	if err != nil {
		return err
	}

	headers := make([]string, len(desc))
	for i, d := range desc {
		headers[i] = d.Name
	}

	tbl := newResultTable(w, headers)
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = cellString(row[h])
		}
		tbl.addRow(cells)
	}
	tbl.render()
	fmt.Fprintf(w, "(%d row(s))\n", len(rows))
	return nil
}
