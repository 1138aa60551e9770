package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/paralelo/workforce/api"
	"github.com/paralelo/workforce/config"
	"github.com/paralelo/workforce/logger"
	"github.com/paralelo/workforce/store"
	"github.com/paralelo/workforce/store/memory"
	"github.com/paralelo/workforce/store/sqlite"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "workforce",
	Short: "Workforce payroll engine",
	Long:  `Work logs, hourly-rate payroll, leave and cash flow for a housekeeping company.`,
	// Errors are printed once by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(payrollCmd)
}

// setup loads the configuration and installs the logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)
	return cfg, nil
}

// openStore opens the configured driver. SQLite databases are migrated.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newHandler(cfg *config.Config, st store.Store) *api.Handler {
	dashboard, report := cfg.Payroll.Policies()
	return api.NewHandler(st, api.Options{
		DashboardPolicy: dashboard,
		ReportPolicy:    report,
		EditWindowDays:  cfg.Payroll.EditWindowDays,
		Now:             time.Now,
	})
}
