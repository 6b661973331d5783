package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = persistence.Close(db) }()

		if err := persistence.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.Database.Driver)
		return nil
	},
}
