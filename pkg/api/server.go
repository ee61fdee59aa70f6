// Package api exposes the solve pipeline over HTTP: one solve endpoint
// plus liveness, readiness and metrics surfaces. No domain logic lives
// here; the handlers translate between transport and the planner.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmarsden/flowplan/pkg/health"
	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/metrics"
	"github.com/jmarsden/flowplan/pkg/network"
)

// SolveBackend runs one solve. Both *plan.Planner and *parallel.SolvePool
// satisfy it.
type SolveBackend interface {
	Solve(ctx context.Context, req *network.Request) (*network.Result, error)
}

// Options configures a Server.
type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       logging.Logger
	Metrics      *metrics.Registry
	Health       *health.Checker
}

// Server is the HTTP API server.
type Server struct {
	backend   SolveBackend
	log       logging.Logger
	metrics   *metrics.Registry
	health    *health.Checker
	startTime time.Time
	port      int

	httpServer *http.Server
}

// NewServer creates an API server around the given backend.
func NewServer(backend SolveBackend, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	hc := opts.Health
	if hc == nil {
		hc = health.NewChecker()
	}

	s := &Server{
		backend:   backend,
		log:       log.With(logging.Component("api")),
		metrics:   opts.Metrics,
		health:    hc,
		startTime: time.Now(),
		port:      opts.Port,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/solve", s.handleSolve)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/live", s.handleLiveness)
	mux.HandleFunc("/health/ready", s.handleReadiness)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	readTimeout := opts.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.requestIDMiddleware(s.loggingMiddleware(s.metricsMiddleware(s.corsMiddleware(mux)))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("api server listening", logging.Int("port", s.port))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("api server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
