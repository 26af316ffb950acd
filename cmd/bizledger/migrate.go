package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger/internal/platform/config"
	"github.com/SscSPs/bizledger/migrations"
	"github.com/SscSPs/bizledger/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator, logger *slog.Logger) error {
			if err := m.Up(); err != nil {
				return err
			}
			logger.Info("Database migrations applied successfully.")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("steps must be at least 1, got %d", steps)
		}
		return withMigrator(func(m *database.Migrator, logger *slog.Logger) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			logger.Info("Database migrations rolled back", slog.Int("steps", steps))
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator, logger *slog.Logger) error {
			v, dirty, ok, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(m *database.Migrator, logger *slog.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("PGSQL_URL is required for migrations")
	}

	m, err := database.NewMigrator(cfg.DatabaseURL, migrations.FS)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	return fn(m, logger)
}
