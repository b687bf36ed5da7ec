// Package search answers questions against a persisted index.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/storage"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/vector"
	"go.uber.org/zap"
)

// EmbedderFactory builds the embedder for a provider name.
type EmbedderFactory func(provider string) (embedding.Embedder, error)

// Searcher is the query surface shared by the HTTP server, the TUI and the CLI.
type Searcher interface {
	Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error)
}

// Status describes the index an Engine serves.
type Status struct {
	Ready     bool             `json:"ready"`
	IndexPath string           `json:"index_path"`
	Backend   string           `json:"backend"`
	Provider  string           `json:"default_provider"`
	Manifest  *models.Manifest `json:"manifest,omitempty"`
	Sources   []string         `json:"sources,omitempty"`
	DiskBytes int64            `json:"disk_bytes"`
	Error     string           `json:"error,omitempty"`
}

// Engine runs semantic search over the index at one location.
//
// The index is loaded on first use and kept until Reload. A failed load is
// not cached, so a later query retries it. Embedders are created per
// provider on first use and reused.
type Engine struct {
	backend         storage.Backend
	indexPath       string
	newEmbedder     EmbedderFactory
	defaultProvider string
	defaultLimit    int
	maxLimit        int
	logger          *zap.Logger

	mu        sync.Mutex
	index     storage.Index
	embedders map[string]embedding.Embedder
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for query and load events.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithLimits overrides the default and maximum result counts.
func WithLimits(defaultLimit, maxLimit int) EngineOption {
	return func(e *Engine) {
		if maxLimit > 0 {
			e.maxLimit = maxLimit
		}
		if defaultLimit > 0 {
			e.defaultLimit = defaultLimit
		}
	}
}

// NewEngine creates an engine reading the index at indexPath through backend.
// Queries that name no provider use defaultProvider.
func NewEngine(backend storage.Backend, indexPath, defaultProvider string, factory EmbedderFactory, opts ...EngineOption) *Engine {
	e := &Engine{
		backend:         backend,
		indexPath:       indexPath,
		newEmbedder:     factory,
		defaultProvider: defaultProvider,
		defaultLimit:    models.DefaultLimit,
		maxLimit:        models.MaxLimit,
		logger:          zap.NewNop(),
		embedders:       make(map[string]embedding.Embedder),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultProvider returns the provider used when a query names none.
func (e *Engine) DefaultProvider() string { return e.defaultProvider }

// Limits returns the default and maximum result counts.
func (e *Engine) Limits() (defaultLimit, maxLimit int) { return e.defaultLimit, e.maxLimit }

// Search embeds the question with the query's provider and returns the top
// Limit chunks by similarity. Fewer results are returned when the index holds
// fewer chunks; an empty index yields an empty, non-nil result list, as does a
// query that embeds to the zero vector.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := ProcessQuery(query, e.defaultLimit, e.maxLimit); err != nil {
		return nil, err
	}
	provider := query.Provider
	if provider == "" {
		provider = e.defaultProvider
	}
	query.Provider = provider

	index, err := e.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	manifest := index.Manifest()
	if manifest.Provider != provider {
		return nil, fmt.Errorf("%w: index was built with %q, query uses %q", models.ErrProviderMismatch, manifest.Provider, provider)
	}
	embedder, err := e.embedder(provider)
	if err != nil {
		return nil, err
	}
	if err := checkCompatible(manifest, embedder); err != nil {
		return nil, err
	}

	vec, err := embedder.Embed(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	var results []*models.SearchResult
	if vector.L2Norm(vec) == 0 {
		// Nothing in the query survived embedding (e.g. only stopwords); every
		// score would be 0, so no chunk is more relevant than another.
		e.logger.Debug("query embedded to zero vector", zap.String("query", query.Query))
	} else {
		results, err = index.Search(ctx, vec, query.Limit)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
	}
	if results == nil {
		results = []*models.SearchResult{}
	}
	elapsed := time.Since(start)
	e.logger.Debug("search complete",
		zap.String("provider", provider),
		zap.Int("limit", query.Limit),
		zap.Int("results", len(results)),
		zap.Duration("took", elapsed),
	)
	return &models.SearchResponse{
		Query:     query.Query,
		Provider:  provider,
		Results:   results,
		Total:     len(results),
		QueryTime: elapsed.Milliseconds(),
	}, nil
}

// checkCompatible rejects an embedder whose model or vector size differs from
// the one that built the index.
func checkCompatible(manifest models.Manifest, embedder embedding.Embedder) error {
	if manifest.Model != "" && manifest.Model != embedder.Model() {
		return fmt.Errorf("%w: index model %q, embedder model %q", models.ErrProviderMismatch, manifest.Model, embedder.Model())
	}
	if manifest.Dimensions != embedder.Dimensions() {
		return fmt.Errorf("%w: index has %d dimensions, embedder produces %d", models.ErrProviderMismatch, manifest.Dimensions, embedder.Dimensions())
	}
	return nil
}

func (e *Engine) loadIndex(ctx context.Context) (storage.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index != nil {
		return e.index, nil
	}
	index, err := e.backend.Load(ctx, e.indexPath)
	if err != nil {
		e.logger.Warn("index load failed", zap.String("path", e.indexPath), zap.Error(err))
		return nil, err
	}
	m := index.Manifest()
	e.logger.Info("index loaded",
		zap.String("path", e.indexPath),
		zap.String("backend", m.Backend),
		zap.String("provider", m.Provider),
		zap.Int("chunks", m.Chunks),
	)
	e.index = index
	return index, nil
}

func (e *Engine) embedder(provider string) (embedding.Embedder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if emb, ok := e.embedders[provider]; ok {
		return emb, nil
	}
	if e.newEmbedder == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, provider)
	}
	emb, err := e.newEmbedder(provider)
	if err != nil {
		return nil, err
	}
	e.embedders[provider] = emb
	return emb, nil
}

// Reload drops the cached index so the next query reads it from disk again.
// Call it after re-ingesting into the same location.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index == nil {
		return nil
	}
	err := e.index.Close()
	e.index = nil
	return err
}

// Status loads the index if needed and reports what it holds. A missing or
// unreadable index is reported with Ready false rather than as an error.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	st := &Status{
		IndexPath: e.indexPath,
		Backend:   e.backend.Name(),
		Provider:  e.defaultProvider,
	}
	disk, err := storage.DiskUsageBytes(e.indexPath)
	if err != nil {
		return nil, err
	}
	st.DiskBytes = disk
	index, err := e.loadIndex(ctx)
	if err != nil {
		if errors.Is(err, models.ErrIndexNotFound) || errors.Is(err, models.ErrIndexCorrupt) {
			st.Error = err.Error()
			return st, nil
		}
		return nil, err
	}
	m := index.Manifest()
	st.Ready = true
	st.Manifest = &m
	st.Sources = index.Sources()
	return st, nil
}

// Close releases the cached index and every embedder.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var errs []error
	if e.index != nil {
		errs = append(errs, e.index.Close())
		e.index = nil
	}
	names := make([]string, 0, len(e.embedders))
	for name := range e.embedders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, e.embedders[name].Close())
		delete(e.embedders, name)
	}
	return errors.Join(errs...)
}
