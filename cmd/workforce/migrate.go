package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paralelo/workforce/config"
	"github.com/paralelo/workforce/store/sqlite"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded sqlite migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverSQLite {
		return errors.New("migrate: only the sqlite driver has a schema")
	}

	st, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	if migrateRollback {
		if err := st.Rollback(ctx); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	} else if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := st.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("migrations done", "path", cfg.Database.Path, "version", version, "rollback", migrateRollback)
	return nil
}
