// Package server provides the web UI and HTTP API for the knowledge base.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/present"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Ingester rebuilds the index from a directory. *indexer.Indexer satisfies it.
type Ingester interface {
	IndexDirectory(ctx context.Context, dir string) (*indexer.Report, error)
}

// ErrIngestDisabled is returned by Reingest when the server has no ingester.
var ErrIngestDisabled = errors.New("ingest not enabled")

// Server is the HTTP server for the knowledge base.
type Server struct {
	engine    *search.Engine
	presenter *present.Presenter
	ingester  Ingester
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server

	// ingestMu serialises rebuilds from HTTP and the directory watcher.
	ingestMu sync.Mutex
}

// NewServer creates a server with the given dependencies. ingester may be nil,
// in which case the ingest endpoint reports 501.
func NewServer(engine *search.Engine, ingester Ingester, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine: engine,
		presenter: present.New(engine,
			present.WithTruncateAt(cfg.Search.TruncateAt),
			present.WithMaxLimit(cfg.Search.MaxLimit),
		),
		ingester: ingester,
		config:   cfg,
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndexPage)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Post("/ingest", s.handleIngest)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops. The listen address
// is fixed when the server is created.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server. Once stopped, Start returns
// http.ErrServerClosed.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
