package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewMonitoringHandler exposes /metrics from reg and /healthz from checker.
func NewMonitoringHandler(reg *prometheus.Registry, checker http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/healthz", checker)

	return mux
}

// StartMonitoringServer serves the monitoring endpoints on port until ctx is cancelled.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	checker http.Handler,
	port int,
) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on monitoring port %d: %w", port, err)
	}

	return ServeMonitoring(ctx, log, ln, NewMonitoringHandler(reg, checker))
}

// ServeMonitoring serves handler on ln and shuts down gracefully when ctx is done.
func ServeMonitoring(ctx context.Context, log *slog.Logger, ln net.Listener, handler http.Handler) error {
	log = log.With(slog.String("division", "monitoring"))
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting monitoring server", "addr", ln.Addr().String())
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down monitoring server: %w", err)
		}
		log.InfoContext(ctx, "Monitoring server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("monitoring server failed: %w", err)
	}
}
