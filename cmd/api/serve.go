package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/budget-tracker/backend/internal/infra/dependency"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, email worker and lifecycle scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := bootstrap()

	slog.Info("Starting Budget Tracker API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(database)

	injector, err := dependency.NewInjector(cfg, database.DB(), dependency.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := injector.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var background sync.WaitGroup
	if injector.EmailWorker != nil {
		background.Add(1)
		go func() {
			defer background.Done()
			injector.EmailWorker.Start(ctx)
		}()
	}
	background.Add(1)
	go func() {
		defer background.Done()
		injector.Scheduler.Start(ctx)
	}()

	engine := injector.Router.Setup(cfg.Server.Environment)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, failed := <-serveErr:
		if failed {
			stop()
			background.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	background.Wait()

	slog.Info("Server exited properly")
	return nil
}
