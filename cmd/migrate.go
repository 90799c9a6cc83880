package cmd

import (
	"fmt"
	"strings"

	"github.com/clipforge/clipforge-api/internal/database"
	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the ClipForge API.

Migrations are schema-driven: the up command applies the current model
schema to the configured database, and status reports which tables exist.

Available subcommands:
  up      - Apply the current schema
  status  - Show current migration status`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the current schema",
	Long: `Apply the current model schema to the database.

Creates missing tables, columns, and indexes. Existing data is preserved;
columns are never dropped.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display which of the application's tables exist in the configured
database and which are missing.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateUpCmd.Flags().Bool("dry-run", false, "show what would be done without making changes")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		fmt.Printf("Would apply schema to %s for tables:\n", viper.GetString("database.path"))
		for _, model := range []interface{}{&models.Video{}, &models.ClipSuggestion{}, &models.Transcript{}, &models.Job{}} {
			fmt.Printf("  • %T\n", model)
		}
		return nil
	}

	db, err := database.InitializeWithMigrations()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer db.Close()

	fmt.Println("Schema applied successfully")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return fmt.Errorf("database path is not configured")
	}

	db, err := database.Initialize(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Println("Database Migration Status")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Database: %s\n\n", dbPath)

	migrator := db.DB.Migrator()
	for _, model := range []interface{}{&models.Video{}, &models.ClipSuggestion{}, &models.Transcript{}, &models.Job{}} {
		state := "missing"
		if migrator.HasTable(model) {
			state = "present"
		}
		fmt.Printf("  %-30T %s\n", model, state)
	}

	return nil
}
