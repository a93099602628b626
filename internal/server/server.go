// Package server exposes the bottlenose dispatcher over HTTP.
//
// Each route forwards its query string as call parameters to a bound call
// and writes the upstream body back unchanged:
//
//	GET /amazon/{operation}?ItemId=...
//	GET /goodreads/{operation...}?isbn=...
//	GET /scrape?url=...&format=markdown
//	GET /healthz
//	GET /version
//	GET /metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/bottlenose/pkg/integrations"
)

const shutdownTimeout = 10 * time.Second

// Options wires providers into the gateway. A nil client leaves its route
// unregistered; a nil Metrics registry disables /metrics.
type Options struct {
	Addr      string
	Amazon    *integrations.Client[[]byte]
	Goodreads *integrations.Client[[]byte]
	Scraper   *integrations.Client[[]byte]
	Metrics   *prometheus.Registry
	Logger    *log.Logger
}

// Server is the HTTP gateway.
type Server struct {
	opts   Options
	router chi.Router
	logger *log.Logger
}

// New builds the router.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "NOT_FOUND", "no such route", 0)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", 0)
	})

	s := &Server{opts: opts, router: r, logger: logger}
	s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.Get("/healthz", handleHealth)
	r.Get("/version", handleVersion)

	if s.opts.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Metrics, promhttp.HandlerOpts{}))
	}
	if s.opts.Amazon != nil {
		r.Get("/amazon/{operation}", s.handleCall(s.opts.Amazon, "application/xml"))
	}
	if s.opts.Goodreads != nil {
		r.Get("/goodreads/*", s.handleCall(s.opts.Goodreads, "application/xml"))
	}
	if s.opts.Scraper != nil {
		r.Get("/scrape", s.handleScrape)
	}
}
