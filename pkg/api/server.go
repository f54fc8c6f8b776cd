// Package api serves compatibility checks and upgrade planning over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lexfrei/plugcheck/pkg/inventory"
	"github.com/lexfrei/plugcheck/pkg/metrics"
	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/solver"
)

// maxBodyBytes bounds request bodies. Descriptors are small XML files.
const maxBodyBytes = 1 << 20

// Server handles REST API requests.
type Server struct {
	source      inventory.Source
	solver      *solver.SimpleSolver
	recorder    metrics.Recorder
	gatherer    prometheus.Gatherer
	hostName    string
	logger      *slog.Logger
	versionInfo VersionInfo
	server      *http.Server
}

// VersionInfo contains build information reported by /api/v1/version.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Options configures a Server. Source is required.
type Options struct {
	Addr     string
	HostName string
	Source   inventory.Source
	Recorder metrics.Recorder
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	VersionInfo VersionInfo
}

// NewServer creates a new API server instance.
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("inventory source is required")
	}

	if opts.HostName == "" {
		opts.HostName = requirement.DefaultHostName
	}

	if opts.Recorder == nil {
		opts.Recorder = &metrics.NoopRecorder{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	srv := &Server{
		source:      opts.Source,
		solver:      solver.NewSimpleSolver(opts.Recorder),
		recorder:    opts.Recorder,
		gatherer:    opts.Gatherer,
		hostName:    opts.HostName,
		logger:      opts.Logger.With("component", "api"),
		versionInfo: opts.VersionInfo,
	}

	srv.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/validate", s.handleValidate)
	mux.HandleFunc("POST /api/v1/plan", s.handlePlan)
	mux.HandleFunc("GET /api/v1/plugins", s.handlePlugins)
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/version", s.handleVersion)

	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting API server", "address", s.server.Addr)

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "api server failed")
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shutdown api server")
	}

	s.logger.Info("API server stopped")

	return nil
}
