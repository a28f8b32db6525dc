// Command supportsphere-daemon serves the HTTP API and runs the deadline
// reminder poller until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NamashivayamS/Support-Sphere/internal/app"
	"github.com/NamashivayamS/Support-Sphere/internal/config"
	"github.com/NamashivayamS/Support-Sphere/internal/logging"
)

func main() {
	cmd := &cobra.Command{
		Use:           "supportsphere-daemon",
		Short:         "Serve the SupportSphere API and send deadline reminders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return run(path)
		},
	}
	cmd.Flags().String("config", "", "Path to config.yaml")

	if err := cmd.Execute(); err != nil {
		slog.Error("daemon error", "error", err)
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

func run(configPath string) error {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Logging); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close app", "error", err)
		}
	}()

	handler, err := a.Handler()
	if err != nil {
		return err
	}
	a.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		_ = a.Poller.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("supportsphere daemon starting", "addr", cfg.Server.Addr, "pid", os.Getpid())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			cancel()
			<-pollerDone
			return err
		}
	}

	slog.Info("supportsphere daemon shutting down gracefully")
	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "error", err)
	}
	cancel()
	<-pollerDone
	return nil
}
