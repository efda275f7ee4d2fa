package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/invoice_flow_app/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("path")
		return database.RunMigrations(cfg.DatabaseURL, path, logger)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("path")
		steps, _ := cmd.Flags().GetInt("steps")
		return database.RollbackMigrations(cfg.DatabaseURL, path, steps, logger)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("path")
		version, dirty, err := database.MigrationVersion(cfg.DatabaseURL, path, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateCmd.PersistentFlags().String("path", database.DefaultMigrationsPath, "Migration source URL")
	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}
