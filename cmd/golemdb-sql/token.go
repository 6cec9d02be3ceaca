package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/golemdb/golemdb-sql-go/adminsession"
)

func newTokenCommand(flags *rootFlags) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin session token that gates DDL statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.adminSecret == "" {
				return fmt.Errorf("--admin-secret (or GOLEMDB_ADMIN_SECRET) is required to mint a token")
			}
			manager := adminsession.NewManager(adminsession.Config{
				Secret: flags.adminSecret,
				Issuer: flags.adminIssuer,
				TTL:    ttl,
			})
			tok, err := manager.Mint(subject)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", os.Getenv("USER"), "identity to embed in the minted token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
