// Package server exposes rendering, tables, interactive pages and exports
// over HTTP.
//
// Clients create a session, render datasets into it and export the
// session's current chart:
//
//	POST   /api/sessions                      -> {"id": "..."}
//	POST   /api/sessions/{id}/render          -> {"options", "table", "scale"}
//	GET    /api/sessions/{id}/table           -> HTML table
//	GET    /api/sessions/{id}/page            -> interactive HTML page
//	POST   /api/sessions/{id}/export/{kind}   -> file download
//	DELETE /api/sessions/{id}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/config"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/pipeline"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/session"
)

// maxBodyBytes caps render request bodies.
const maxBodyBytes = 8 << 20

// Server is the HTTP front end. Create one with New.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	sessions *session.Registry
	exporter *export.Coordinator
	runner   *pipeline.Runner
	router   chi.Router
}

// New wires a server. A nil cache disables artifact caching; a nil logger
// discards output.
func New(cfg *config.Config, exporter *export.Coordinator, c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if c == nil {
		c = cache.NewNull()
	}
	runner := pipeline.NewRunner(cache.Instrument(c, "artifact"), nil, exporter, logger)
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		runner.TTL = ttl
	}
	runner.EvictOnRelease = true
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: session.NewRegistry(cfg.Server.SessionTTL.Duration, logger),
		exporter: exporter,
		runner:   runner,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session registry.
func (s *Server) Sessions() *session.Registry { return s.sessions }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/render", s.handleRender)
			r.Get("/table", s.handleTable)
			r.Get("/page", s.handlePage)
			r.Post("/export/{kind}", s.handleExport)
		})
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully and releases every session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.Run(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.Close(shutdownCtx)
	s.logger.Info("server stopped")
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
