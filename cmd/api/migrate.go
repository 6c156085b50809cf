package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"repairshop/internal/config"
	"repairshop/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the PostgreSQL schema",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log, os.Stdout)

		db, err := database.NewConnection(cfg.Database.DSN(), logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("schema migrated", slog.String("database", cfg.Database.Name))
		return nil
	},
}
