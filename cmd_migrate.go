package main

import (
	"context"
	"fmt"

	"receitas/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations to the Postgres backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := db.Init(ctx, cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()
		return applyMigrations(ctx, logger)
	},
}
