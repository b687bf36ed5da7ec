package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/loader"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/storage"
	"go.uber.org/zap"
)

// Report summarizes one ingestion run.
type Report struct {
	Directory  string        `json:"directory"`
	IndexPath  string        `json:"index_path"`
	Backend    string        `json:"backend"`
	Provider   string        `json:"provider"`
	Model      string        `json:"model"`
	Documents  int           `json:"documents"`
	Chunks     int           `json:"chunks"`
	Dimensions int           `json:"dimensions"`
	BuildID    string        `json:"build_id"`
	Duration   time.Duration `json:"duration"`
}

// Indexer runs the ingestion pipeline: load, chunk, embed, persist.
type Indexer struct {
	loader    *loader.Loader
	chunker   *Chunker
	embedder  embedding.Embedder
	backend   storage.Backend
	indexPath string
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for progress and debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer writing to indexPath through backend.
func NewIndexer(
	ld *loader.Loader,
	chunker *Chunker,
	embedder embedding.Embedder,
	backend storage.Backend,
	indexPath string,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		loader:    ld,
		chunker:   chunker,
		embedder:  embedder,
		backend:   backend,
		indexPath: indexPath,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexDirectory rebuilds the index from the accepted files directly inside dir.
// The previous index at the same location is replaced only when every step
// succeeds. A directory with no accepted files produces an empty index.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string) (*Report, error) {
	start := time.Now()
	docs, err := idx.loader.LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	idx.logger.Info("documents loaded", zap.String("dir", dir), zap.Int("documents", len(docs)))
	report, err := idx.IndexDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}
	report.Directory = dir
	report.Duration = time.Since(start)
	return report, nil
}

// IndexDocuments chunks, embeds, and persists docs as a complete new index.
func (idx *Indexer) IndexDocuments(ctx context.Context, docs []*models.Document) (*Report, error) {
	var chunks []*models.Chunk
	for _, doc := range docs {
		doc.Content = Preprocess(doc.Content)
		docChunks := idx.chunker.Chunk(doc)
		idx.logger.Debug("document chunked", zap.String("source", doc.Source), zap.Int("chunks", len(docChunks)))
		chunks = append(chunks, docChunks...)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(chunks) {
			return nil, fmt.Errorf("failed to generate embeddings: got %d for %d chunks", len(vectors), len(chunks))
		}
	}

	manifest := &models.Manifest{
		Provider:     idx.embedder.Name(),
		Model:        idx.embedder.Model(),
		Dimensions:   idx.embedder.Dimensions(),
		Documents:    len(docs),
		ChunkSize:    idx.chunker.Size(),
		ChunkOverlap: idx.chunker.Overlap(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := idx.backend.Build(ctx, idx.indexPath, manifest, chunks, vectors); err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}
	idx.logger.Info("index built",
		zap.String("path", idx.indexPath),
		zap.String("backend", idx.backend.Name()),
		zap.String("provider", manifest.Provider),
		zap.Int("documents", manifest.Documents),
		zap.Int("chunks", manifest.Chunks),
	)
	return &Report{
		IndexPath:  idx.indexPath,
		Backend:    idx.backend.Name(),
		Provider:   manifest.Provider,
		Model:      manifest.Model,
		Documents:  manifest.Documents,
		Chunks:     manifest.Chunks,
		Dimensions: manifest.Dimensions,
		BuildID:    manifest.BuildID,
	}, nil
}
