package main

import (
	"github.com/spf13/cobra"

	"github.com/warp/provision-engine/config"
	"github.com/warp/provision-engine/logger"
	"github.com/warp/provision-engine/store/postgres"
)

// newSetupCommand creates the database: tables, the calculate_provisions
// stored procedure, and sample data. Safe to run repeatedly.
func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create schema, stored procedure, and sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.Init(cfg.Logger.Level, cfg.Logger.Format)
			ctx := cmd.Context()

			store, err := postgres.New(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer store.Close()

			log.Info("creating tables")
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			log.Info("creating stored procedure")
			if err := store.CreateStoredProcedure(ctx); err != nil {
				return err
			}

			log.Info("inserting sample data")
			if err := store.Seed(ctx); err != nil {
				return err
			}

			log.Info("database setup completed")
			return nil
		},
	}
}
