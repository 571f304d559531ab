package main

import (
	"github.com/deppfellow/apidocs-boilerplate/internal/config"
	"github.com/deppfellow/apidocs-boilerplate/internal/database"
	"github.com/deppfellow/apidocs-boilerplate/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Observability)
			return database.Migrate(cmd.Context(), &log, cfg)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the examples table with sample rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			loggerService := logger.NewLoggerService(cfg.Observability)
			defer loggerService.Shutdown()

			log := logger.NewLoggerWithService(cfg.Observability, loggerService)

			db, err := database.New(cfg, &log, loggerService)
			if err != nil {
				return err
			}
			defer db.Close()

			return db.Seed(cmd.Context(), &log)
		},
	}
}
