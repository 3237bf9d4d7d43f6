package cli

import (
	"fmt"

	"github.com/MyelinBots/vitals-go/config"
	"github.com/MyelinBots/vitals-go/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			cfg := config.LoadConfigOrPanic()
			if err := db.MigrateDown(cfg.DBConfig.URL(), steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.LoadConfigOrPanic()
				if err := db.MigrateUp(cfg.DBConfig.URL()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.LoadConfigOrPanic()
				version, dirty, ok, err := db.MigrationVersion(cfg.DBConfig.URL())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatVersion(version, dirty, ok))
				return nil
			},
		},
	)
	return cmd
}

func formatVersion(version uint, dirty, ok bool) string {
	switch {
	case !ok:
		return "no migrations applied"
	case dirty:
		return fmt.Sprintf("version %d (dirty)", version)
	}
	return fmt.Sprintf("version %d", version)
}
