package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"yamdb/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Schema migration commands",
	Long:  `Apply or roll back the embedded SQL migrations against DATABASE_URL.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cfg.DatabaseURL, database.Up, log); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		success("Database schema is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cfg.DatabaseURL, database.Down, log); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		success("Rolled back one migration")
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
