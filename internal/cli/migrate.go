// filepath: internal/cli/migrate.go
package cli

import (
	"fmt"

	"ranktrack/internal/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tools",
	Long:  `Manage database schema versions. Use subcommands 'up', 'down', or 'status'.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Migrate the database to the most recent version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(func(repo *repository.Repository) error {
			return repo.MigrateUp()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the database by one version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(func(repo *repository.Repository) error {
			return repo.MigrateDown()
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Dump the migration status for the current database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(func(repo *repository.Repository) error {
			return repo.MigrationStatus()
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func withRepository(fn func(*repository.Repository) error) error {
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	return fn(repo)
}
