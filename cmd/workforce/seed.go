package main

import (
	"fmt"
	"log/slog"

	"github.com/paralelo/workforce/api"
	"github.com/spf13/cobra"
)

var (
	clearData    bool
	seedScenario string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo scenario for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup()
		if err != nil {
			return err
		}

		st, err := openStore(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init store: %w", err)
		}
		defer st.Close()

		if clearData {
			if err := st.Reset(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
			slog.Warn("existing data cleared")
		}

		if err := api.LoadScenario(ctx, st, seedScenario); err != nil {
			return err
		}
		slog.Info("scenario seeded", "scenario", seedScenario, "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedScenario, "scenario", api.DefaultScenario, "demo scenario to load")
}
