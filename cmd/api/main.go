// Package main is the entry point for the Budget Tracker API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/infra/db"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Budget Tracker API",
	Long: `Budget Tracker tracks monthly budgets, moves them through their
lifecycle and alerts owners when spending crosses 50, 80 and 100 percent.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the environment, installs the JSON logger and returns the configuration.
func bootstrap() *config.Config {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)

	return cfg
}

// openDatabase connects and migrates the schema.
func openDatabase(cfg *config.Config) (*db.Database, error) {
	database, err := db.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}
	slog.Info("Database migrations completed successfully")
	return database, nil
}

func closeDatabase(database *db.Database) {
	if err := database.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}
