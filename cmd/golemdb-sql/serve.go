package main

import (
	"github.com/spf13/cobra"

	"github.com/golemdb/golemdb-sql-go/httpapi"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP query host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := flags.openConnection()
			if err != nil {
				return err
			}
			return httpapi.NewServer(conn, version).Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
