package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the dealerbook SQL schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema to the configured store",
	Long: `Apply the schema to the store named by database.driver.
Every statement is idempotent, so running up twice is safe.
Use --dry-run to print the statements without connecting.`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
	upCmd.Flags().Bool("dry-run", false, "Print migration SQL without executing it")
	upCmd.Flags().Duration("timeout", 30*time.Second, "Maximum time to spend applying the schema")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runUp(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.Database.Driver.IsSQL() {
		return fmt.Errorf("database.driver %q has no schema to migrate", cfg.Database.Driver)
	}

	if dryRun {
		for _, stmt := range database.Migrations(cfg.Database.Driver) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
		}
		return nil
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, err := database.NewDB(cfg, logger)
	if err != nil {
		logger.Errorw("Failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	logger.Info("Running database migrations...")
	if err := db.Migrate(ctx); err != nil {
		logger.Errorw("Failed to apply schema", "error", err)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migration process completed")
	return nil
}
