// Package storage persists a built vector index to disk and loads it back for querying.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/vector"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend writes and reads one on-disk index layout. Ingestion and querying
// must use the same Backend for a given location.
type Backend interface {
	Name() string
	// Build replaces whatever index exists at path with one holding chunks[i]
	// paired with vectors[i]. Manifest counts are filled in by Build.
	Build(ctx context.Context, path string, manifest *models.Manifest, chunks []*models.Chunk, vectors [][]float32) error
	// Load opens the index at path. A missing index is models.ErrIndexNotFound;
	// unreadable or inconsistent files are models.ErrIndexCorrupt.
	Load(ctx context.Context, path string) (Index, error)
}

// Index is a loaded, read-only index.
type Index interface {
	Manifest() models.Manifest
	Search(ctx context.Context, query []float32, k int) ([]*models.SearchResult, error)
	Sources() []string
	Size() int
	Close() error
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func applyOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewBackend returns the backend registered under name ("flat" or "sqlite").
func NewBackend(name string, opts ...Option) (Backend, error) {
	switch name {
	case config.BackendFlat:
		return NewFlatBackend(opts...), nil
	case config.BackendSQLite:
		return NewSQLiteBackend(opts...), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q (supported: flat, sqlite)", name)
	}
}

// prepareManifest validates the build inputs and completes manifest bookkeeping.
func prepareManifest(backend string, manifest *models.Manifest, chunks []*models.Chunk, vectors [][]float32) error {
	if manifest == nil {
		return errors.New("manifest is required")
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if manifest.Dimensions <= 0 {
		return fmt.Errorf("manifest dimensions must be positive, got %d", manifest.Dimensions)
	}
	docs := make(map[string]struct{})
	for i, v := range vectors {
		if len(v) != manifest.Dimensions {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), manifest.Dimensions)
		}
		docs[chunks[i].DocumentID] = struct{}{}
	}
	manifest.Version = models.ManifestVersion
	manifest.Backend = backend
	manifest.Chunks = len(chunks)
	if manifest.Documents < len(docs) {
		manifest.Documents = len(docs)
	}
	if manifest.BuildID == "" {
		manifest.BuildID = uuid.New().String()
	}
	return nil
}

// replaceDir writes a fresh index into a sibling staging directory via write,
// then swaps it into place so readers never observe a half-written index.
func replaceDir(path string, write func(dir string) error) error {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create index parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(path)+".build-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	if err := write(staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := os.Chmod(staging, 0755); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("chmod staging dir: %w", err)
	}
	old := ""
	if _, err := os.Stat(path); err == nil {
		old = staging + ".old"
		if err := os.Rename(path, old); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("move previous index aside: %w", err)
		}
	}
	if err := os.Rename(staging, path); err != nil {
		if old != "" {
			_ = os.Rename(old, path)
		}
		_ = os.RemoveAll(staging)
		return fmt.Errorf("install index: %w", err)
	}
	if old != "" {
		_ = os.RemoveAll(old)
	}
	return nil
}

// checkExists maps a missing index location to models.ErrIndexNotFound.
func checkExists(path, file string) error {
	info, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s (run ingest first)", models.ErrIndexNotFound, path)
		}
		return fmt.Errorf("%w: %v", models.ErrIndexCorrupt, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", models.ErrIndexCorrupt, filepath.Join(path, file))
	}
	return nil
}

func corrupt(path string, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", models.ErrIndexCorrupt, path, fmt.Sprintf(format, args...))
}

// memoryIndex pairs a vector.MemoryIndex with the chunks its IDs refer to.
type memoryIndex struct {
	manifest models.Manifest
	vectors  *vector.MemoryIndex
	chunks   map[string]*models.Chunk
}

// newMemoryIndex checks that manifest, vectors, and chunks agree with each other.
func newMemoryIndex(path string, manifest models.Manifest, vectors *vector.MemoryIndex, chunks map[string]*models.Chunk) (*memoryIndex, error) {
	if manifest.Dimensions != vectors.Dimensions() {
		return nil, corrupt(path, "manifest dimension %d, vectors %d", manifest.Dimensions, vectors.Dimensions())
	}
	if vectors.Size() != len(chunks) || manifest.Chunks != len(chunks) {
		return nil, corrupt(path, "manifest lists %d chunks, found %d vectors and %d chunk records",
			manifest.Chunks, vectors.Size(), len(chunks))
	}
	return &memoryIndex{manifest: manifest, vectors: vectors, chunks: chunks}, nil
}

func (m *memoryIndex) Manifest() models.Manifest { return m.manifest }

func (m *memoryIndex) Size() int { return m.vectors.Size() }

func (m *memoryIndex) Close() error { return m.vectors.Close() }

// Search returns the k nearest chunks, best first, ranked from 1.
func (m *memoryIndex) Search(ctx context.Context, query []float32, k int) ([]*models.SearchResult, error) {
	hits, err := m.vectors.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	results := make([]*models.SearchResult, 0, len(hits))
	for _, h := range hits {
		chunk, ok := m.chunks[h.ID]
		if !ok {
			return nil, fmt.Errorf("%w: vector %s has no chunk record", models.ErrIndexCorrupt, h.ID)
		}
		results = append(results, &models.SearchResult{Chunk: chunk, Score: h.Score, Rank: len(results) + 1})
	}
	return results, nil
}

// Sources returns the distinct chunk source paths, sorted.
func (m *memoryIndex) Sources() []string {
	seen := make(map[string]struct{})
	for _, c := range m.chunks {
		if s := c.Source(); s != "" {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
