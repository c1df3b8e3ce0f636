// Package server serves one editing session over HTTP: an HTML preview,
// a JSON API over the command surface and prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableflip.dev/resume/pkg/printer"
	"tableflip.dev/resume/pkg/session"
	"tableflip.dev/resume/pkg/store"
)

// Options configure New.
type Options struct {
	Logger *slog.Logger
	// Metrics exposes /metrics.
	Metrics bool
	// Registry collects the server metrics; a fresh one is used when nil.
	Registry *prometheus.Registry
	// Printer renders PDF exports; defaults to printer.NewPDF.
	Printer printer.Printer
}

// Server is the HTTP front end of a session. Requests are handled one at a
// time; only a running export overlaps with them.
type Server struct {
	router      chi.Router
	log         *slog.Logger
	printer     printer.Printer
	registry    *prometheus.Registry
	metrics     *metrics
	withMetrics bool

	mu      sync.Mutex // serializes access to session
	session *session.Session
}

// New builds the router for sess.
func New(sess *session.Session, opts Options) *Server {
	s := &Server{
		session:     sess,
		log:         opts.Logger,
		printer:     opts.Printer,
		registry:    opts.Registry,
		withMetrics: opts.Metrics,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.printer == nil {
		s.printer = printer.NewPDF()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	if s.withMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handlePreview)
	r.Get("/print", s.handlePrint)

	r.Route("/api", func(r chi.Router) {
		r.Get("/document", s.handleDocument)
		r.Get("/history", s.handleHistory)
		r.Post("/commands", s.handleCommand)
		r.Post("/undo", s.handleUndo)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
	})

	s.router = r
}

// Follow reloads the session whenever its document changes in the store.
// It returns when events is closed or ctx is done.
func (s *Server) Follow(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == store.EventDocumentChanged && ev.Name != s.session.Name() {
				continue
			}
			s.mu.Lock()
			changed, err := s.session.Sync(ctx)
			s.mu.Unlock()
			switch {
			case err != nil:
				s.log.Warn("sync failed", "error", err)
			case changed:
				s.log.Info("document changed on disk", "event", ev.Type.String())
			}
		}
	}
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", "addr", addr, "document", s.session.Name())
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
