package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	pg "patient-access-portal/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Database.DSN == "" {
				return errors.New("database.dsn is required (PORTAL_DATABASE_DSN)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := pg.Open(ctx, cfg.Database.DSN, pg.Options{})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := pg.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}
