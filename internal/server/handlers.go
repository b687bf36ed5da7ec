package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/loader"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		status := searchErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("search failed", zap.Error(err))
		}
		s.respondError(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// searchErrorStatus maps query failures to HTTP status codes.
func searchErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyQuery), errors.Is(err, models.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrProviderMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defaultLimit, maxLimit := s.engine.Limits()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"index": st,
		"config": map[string]interface{}{
			"ingest_directory": s.config.Ingest.Directory,
			"extensions":       s.config.Ingest.Extensions,
			"chunk_size":       s.config.Chunker.Size,
			"chunk_overlap":    s.config.Chunker.OverlapOrDefault(),
			"default_limit":    defaultLimit,
			"max_limit":        maxLimit,
			"show_scores":      s.config.Search.ShowScoresOrDefault(),
		},
	})
}

// ingestRequest may repeat the configured directory; any other directory is rejected.
type ingestRequest struct {
	Directory string `json:"directory"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingester == nil {
		s.respondError(w, http.StatusNotImplemented, ErrIngestDisabled.Error())
		return
	}
	var req ingestRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if dir := strings.TrimSpace(req.Directory); dir != "" && !sameDir(dir, s.config.Ingest.Directory) {
		s.logger.Warn("ingest rejected", zap.String("dir", dir))
		s.respondError(w, http.StatusBadRequest, "directory must be the configured ingest directory")
		return
	}
	report, err := s.Reingest(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, loader.ErrRead) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// Reingest rebuilds the index from the configured ingest directory and drops
// the engine's cached index.
func (s *Server) Reingest(ctx context.Context) (*indexer.Report, error) {
	if s.ingester == nil {
		return nil, ErrIngestDisabled
	}
	dir := s.config.Ingest.Directory

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()
	s.logger.Info("ingest started", zap.String("dir", dir))
	report, err := s.ingester.IndexDirectory(ctx, dir)
	if err != nil {
		s.logger.Error("ingest failed", zap.String("dir", dir), zap.Error(err))
		return nil, err
	}
	if err := s.engine.Reload(); err != nil {
		s.logger.Warn("closing previous index failed", zap.Error(err))
	}
	s.logger.Info("ingest finished",
		zap.Int("documents", report.Documents),
		zap.Int("chunks", report.Chunks),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// sameDir reports whether a and b name the same directory once made absolute.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
