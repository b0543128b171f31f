package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scootcare/support-platform/internal/config"
	"github.com/scootcare/support-platform/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		db, err := database.Open(cfg.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := database.MigrateUp(db); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		fmt.Println("migrations applied")
		return nil
	},
}
