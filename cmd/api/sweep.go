package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/budget-tracker/backend/internal/infra/dependency"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one lifecycle sweep now and exit",
	Long: `Activates PENDING budgets whose month has started and completes
ACTIVE budgets whose month has ended. Uses the same lock as the scheduler,
so it is a no-op while another instance is sweeping.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg := bootstrap()
	// The sweep command reports through its return value.
	cfg.Email.WorkerEnabled = false
	cfg.Metrics.Enabled = false

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	injector, err := dependency.NewInjector(cfg, database.DB(), dependency.Options{})
	if err != nil {
		return err
	}
	defer func() { _ = injector.Close() }()

	out, err := injector.Scheduler.RunNow(cmd.Context())
	if out != nil {
		slog.Info("Sweep done", "activated", out.Activated, "completed", out.Completed)
	}
	return err
}
