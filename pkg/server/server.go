// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	POST /v1/layout?format=svg   lay out the document in the body
//	GET  /healthz                liveness and build information
//
// The request body is a diagram document. Its Content-Type selects the
// decoder (application/json, application/x-yaml, application/toml); a
// missing Content-Type is read as YAML. The response body is the single
// requested artifact.
//
// # Errors
//
// Failures are returned as {"code": ..., "message": ...} with a status
// derived from the error code:
//
//	MALFORMED_INPUT, INVALID_FORMAT, INVALID_KIND  400
//	UNRESOLVED_REFERENCE                           422
//	UNSUPPORTED                                    415
//	anything else                                  500
//
// Every response carries an X-Request-Id header that also appears in the
// request log.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// KeyPrefix namespaces the server's cache entries.
const KeyPrefix = "api:"

const (
	defaultMaxBody        = 1 << 20
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Pipeline carries the layout constants and render scale applied to
	// every request. Formats is ignored; each request names its own.
	Pipeline pipeline.Options
	// MaxBody bounds the request body size in bytes.
	MaxBody int64
	// RequestTimeout bounds the time spent on one request.
	RequestTimeout time.Duration
	// Cache entry lifetimes; zero keeps the pipeline defaults.
	SceneTTL    time.Duration
	ArtifactTTL time.Duration
}

// Server serves layout requests.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a Server backed by c. A nil cache disables caching and a nil
// logger uses the default logger.
func New(c cache.Cache, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = defaultMaxBody
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(c, cache.NewScopedKeyer(cache.NewDefaultKeyer(), KeyPrefix), logger),
		logger: logger,
	}
	if cfg.SceneTTL > 0 {
		s.runner.SceneTTL = cfg.SceneTTL
	}
	if cfg.ArtifactTTL > 0 {
		s.runner.ArtifactTTL = cfg.ArtifactTTL
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
