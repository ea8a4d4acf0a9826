package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/provision-engine/config"
	"github.com/warp/provision-engine/domain"
	"github.com/warp/provision-engine/logger"
	"github.com/warp/provision-engine/provision"
	"github.com/warp/provision-engine/store/postgres"
)

// newCalculateCommand runs the calculation engine for the given agents and
// prints the joined provision report for each.
func newCalculateCommand() *cobra.Command {
	var agents []uint

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate provisions for agents and print the report",
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

			// Validate the rate table up front so a malformed
			// commission_rates row fails the run before any writes.
			rates, err := store.ListRates(ctx)
			if err != nil {
				return err
			}
			table, err := domain.NewRateTable(rates)
			if err != nil {
				return err
			}
			log.Info("rate table loaded", "policy_types", len(table.Types()))

			engine := provision.NewEngine(store)

			// One agent failing should not stop the demo for the others;
			// the failure still makes the process exit non-zero.
			var failures []error
			for _, agentID := range agents {
				log.Info("calculating provisions", "agent_id", agentID)
				provisions, err := engine.Calculate(ctx, agentID)
				if err != nil {
					log.Error("calculation aborted, nothing stored", "agent_id", agentID, "error", err)
					failures = append(failures, fmt.Errorf("agent %d: %w", agentID, err))
					continue
				}
				log.Info("provisions created", "agent_id", agentID, "count", len(provisions))

				rows, err := store.ProvisionReport(ctx, agentID)
				if err != nil {
					failures = append(failures, fmt.Errorf("agent %d report: %w", agentID, err))
					continue
				}
				fmt.Println()
				provision.FormatReport(os.Stdout, rows)
			}
			return errors.Join(failures...)
		},
	}

	cmd.Flags().UintSliceVar(&agents, "agents", []uint{1, 2}, "agent ids to calculate provisions for")
	return cmd
}
