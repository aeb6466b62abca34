package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/UnknownOlympus/staffbook/internal/api"
	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/UnknownOlympus/staffbook/internal/server"
)

// main is the entry point of the application.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "staffbook",
		Short:        "Employee records over JSON HTTP, persisted to a snapshot file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; real environment variables win.
			_ = godotenv.Load()

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := sl.New(cfg.Env, os.Stdout)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	store := repository.NewFileStore(cfg.Storage.DataFile)
	employeeRepo := repository.NewEmployeeRepository(ctx, logger, store, appMetrics)

	service := api.NewService(api.ServiceDeps{
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		MaxBodySize:       cfg.HTTP.MaxBodySize,
		Repo:              employeeRepo,
		Logger:            logger,
		Metrics:           appMetrics,
		AccessLog:         os.Stdout,
		AccessLogFormat:   cfg.RequestLog.Format,
		SkipCodeThreshold: cfg.RequestLog.SkipCodeThreshold,
	})
	checker := server.NewHealthChecker(store, employeeRepo, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return service.Start(groupCtx)
	})
	group.Go(func() error {
		return server.StartMonitoringServer(groupCtx, logger, reg, checker, cfg.Monitoring.Port)
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		slog.String("data_file", store.Path()),
		slog.Int("port", cfg.HTTP.Port),
	)

	if err := group.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", sl.Err(err))
		return fmt.Errorf("staffbook: %w", err)
	}

	logger.InfoContext(ctx, "Application stopped gracefully...")

	return nil
}
