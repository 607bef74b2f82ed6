// Package server exposes the poster pipeline over HTTP.
//
// # Routes
//
//	GET  /                              form page with recent posters
//	GET  /healthz                       liveness and version
//	GET  /api/palettes/{mode}           palette colors (?count=&seed=)
//	POST /api/posters                   render a JSON configuration
//	GET  /api/posters                   recent posters (?limit=)
//	GET  /api/posters/{id}              one poster
//	GET  /api/posters/{id}/download     artifact (?format=png|svg|pdf|json)
//	GET  /api/posters/{id}/preview      PNG thumbnail (?width=)
//
// Posters are stored by configuration in a [gallery.Store]. Downloads re-run
// the pipeline, which the runner's artifact cache usually answers without
// drawing.
//
// Errors are JSON bodies of the form {"error": "...", "code": "..."} with
// the status derived from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/genposter/pkg/gallery"
	"github.com/matzehuels/genposter/pkg/pipeline"
)

// Environment variables read by the serve command.
const (
	EnvRedisAddr = "GENPOSTER_REDIS_ADDR"
	EnvMongoURI  = "GENPOSTER_MONGO_URI"
	EnvMongoDB   = "GENPOSTER_MONGO_DB"
)

const (
	// DefaultAddr is the listen address when none is given.
	DefaultAddr = "127.0.0.1:8080"

	// RenderTimeout bounds one request's pipeline run.
	RenderTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves the HTTP front-end. It is safe for concurrent use.
type Server struct {
	runner *pipeline.Runner
	store  gallery.Store
	logger *log.Logger
	router chi.Router
}

// New builds a server rendering through runner and recording posters in
// store. A nil store keeps an in-memory history.
func New(runner *pipeline.Runner, store gallery.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if store == nil {
		store = gallery.NewMemoryStore(gallery.DefaultCapacity)
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: store, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/palettes/{mode}", s.handlePalette)
		r.Route("/posters", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Get("/download", s.handleDownload)
				r.Get("/preview", s.handlePreview)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes the runner and store.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	if err == http.ErrServerClosed {
		err = nil
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if cerr := s.store.Close(closeCtx); cerr != nil {
		s.logger.Warn("close gallery", "err", cerr)
	}
	if cerr := s.runner.Close(); cerr != nil {
		s.logger.Warn("close cache", "err", cerr)
	}
	return err
}
