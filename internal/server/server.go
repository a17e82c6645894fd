// Package server exposes the dashboard assembler over a local
// HTTP API: upload an export, read the bundle, rebuild individual
// series under interactive filters, download the flat export.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/dashboard"
	"github.com/chatlens/chatlens/internal/words"
)

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// Server is the HTTP server over the analysis session store.
type Server struct {
	mu        sync.RWMutex
	cfg       config.Config
	store     *dashboard.Store
	assembler *dashboard.Assembler
	stopwords *words.Stopwords
	router    chi.Router
	httpSrv   *http.Server
	version   VersionInfo
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the build-time version metadata.
func WithVersion(v VersionInfo) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server around a session store and stopword set.
func New(
	cfg config.Config, store *dashboard.Store,
	stop *words.Stopwords, opts ...Option,
) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		assembler: dashboard.NewAssembler(stop),
		stopwords: stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.WriteTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/metrics/names", s.handleSeriesNames)

		r.Route("/analyses", func(r chi.Router) {
			r.Post("/", s.handleCreateAnalysis)
			r.Get("/", s.handleListAnalyses)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.handleDeleteAnalysis)
				r.Get("/stats", s.handleGetStats)
				r.Get("/bundle", s.handleGetBundle)
				r.Get("/participants", s.handleGetParticipants)
				r.Get("/series/{metric}", s.handleGetSeries)
				r.Get("/grouped/{metric}", s.handleGetGrouped)
				r.Get("/export", s.handleExport)
			})
		})
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// FindAvailablePort finds an available port starting from the
// given port, binding to the specified host.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port
		}
	}
	return start
}
