package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
)

// EmployeeRepository is what the handlers need from the storage layer.
type EmployeeRepository interface {
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	List(ctx context.Context, department string) []models.Employee
	Get(ctx context.Context, id string) (models.Employee, error)
	Update(ctx context.Context, id string, patch models.UpdatePayload) (models.Employee, error)
	Delete(ctx context.Context, id string) (models.Employee, error)
	PersistNow(ctx context.Context) error
}

type ServiceDeps struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodySize  int

	Repo    EmployeeRepository
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// AccessLog receives request log lines; nil disables the request log.
	AccessLog         io.Writer
	AccessLogFormat   string
	SkipCodeThreshold int
}

type Service struct {
	r      *router.Router
	server *fasthttp.Server
	port   int

	repo    EmployeeRepository
	log     *slog.Logger
	metrics *metrics.Metrics
	access  *RequestLogger
}

func NewService(d ServiceDeps) *Service {
	rt := router.New()
	rt.SaveMatchedRoutePath = true

	s := &Service{
		r:       rt,
		port:    d.Port,
		repo:    d.Repo,
		log:     d.Logger.With(slog.String("division", "api")),
		metrics: d.Metrics,
	}
	if d.AccessLog != nil {
		s.access = NewRequestLogger(d.AccessLog, d.AccessLogFormat, d.SkipCodeThreshold)
	}

	s.mountRoutes()

	s.server = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "staffbook",
		ReadTimeout:        d.ReadTimeout,
		WriteTimeout:       d.WriteTimeout,
		MaxRequestBodySize: d.MaxBodySize,
	}

	return s
}

// Handler returns the router wrapped in the middleware chain. Outermost first:
// request id, recovery, request log, metrics.
func (s *Service) Handler() fasthttp.RequestHandler {
	handler := MetricsMiddleware(s.metrics, s.r.Handler)
	if s.access != nil {
		handler = s.access.Middleware(handler)
	}
	handler = RecoveryMiddleware(s.log, handler)

	return RequestIDMiddleware(handler)
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. When ctx is cancelled the snapshot is
// flushed first, then the listener is closed and in-flight requests finish.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.log.InfoContext(ctx, "Starting employees API", "addr", ln.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.flush(context.WithoutCancel(ctx))
		if err := s.server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		s.log.InfoContext(ctx, "Employees API stopped")
		return nil
	case err := <-serveErr:
		return err
	}
}

func (s *Service) flush(ctx context.Context) {
	if err := s.repo.PersistNow(ctx); err != nil {
		s.log.WarnContext(ctx, "Final snapshot flush failed", sl.Err(err))
		return
	}
	s.log.InfoContext(ctx, "Snapshot flushed before shutdown")
}

func (s *Service) mountRoutes() {
	s.r.GET("/employees", s.listEmployees)
	s.r.POST("/employees", s.createEmployee)
	s.r.GET("/employees/{id}", s.getEmployee)
	s.r.PATCH("/employees/{id}", s.updateEmployee)
	s.r.DELETE("/employees/{id}", s.deleteEmployee)
}
