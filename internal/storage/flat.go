package storage

import (
	"bufio"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/vector"
	"go.uber.org/zap"
)

// Files of a flat index directory.
const (
	ManifestFile = "manifest.json"
	VectorsFile  = "vectors.bin"
	ChunksFile   = "chunks.gob"
)

// chunkRecords is the gob payload of ChunksFile.
type chunkRecords struct {
	Chunks []*models.Chunk
}

// FlatBackend stores an index as three files: a JSON manifest, the raw vector
// table, and gob-encoded chunk records.
type FlatBackend struct {
	opts options
}

// NewFlatBackend returns the file-based backend.
func NewFlatBackend(opts ...Option) *FlatBackend {
	return &FlatBackend{opts: applyOptions(opts)}
}

// Name returns "flat".
func (b *FlatBackend) Name() string { return config.BackendFlat }

// Build writes the index files and swaps them into place at path.
func (b *FlatBackend) Build(ctx context.Context, path string, manifest *models.Manifest, chunks []*models.Chunk, vectors [][]float32) error {
	if err := prepareManifest(b.Name(), manifest, chunks, vectors); err != nil {
		return err
	}
	err := replaceDir(path, func(dir string) error {
		idx, err := vector.NewMemoryIndex(manifest.Dimensions)
		if err != nil {
			return err
		}
		ids := make([]string, len(chunks))
		for i, c := range chunks {
			ids[i] = c.ID
		}
		if err := idx.Add(ctx, ids, vectors); err != nil {
			return fmt.Errorf("add vectors: %w", err)
		}
		if err := idx.Save(filepath.Join(dir, VectorsFile)); err != nil {
			return err
		}
		if err := writeGob(filepath.Join(dir, ChunksFile), chunkRecords{Chunks: chunks}); err != nil {
			return err
		}
		return writeManifest(filepath.Join(dir, ManifestFile), manifest)
	})
	if err != nil {
		return fmt.Errorf("build flat index: %w", err)
	}
	b.opts.logger.Debug("flat index written", zap.String("path", path), zap.Int("chunks", len(chunks)))
	return nil
}

// Load reads the three index files and checks they agree.
func (b *FlatBackend) Load(ctx context.Context, path string) (Index, error) {
	if err := checkExists(path, ManifestFile); err != nil {
		return nil, err
	}
	manifest, err := readManifest(filepath.Join(path, ManifestFile))
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	if manifest.Backend != "" && manifest.Backend != b.Name() {
		return nil, corrupt(path, "index was built with the %s backend", manifest.Backend)
	}
	vectors, err := vector.LoadMemoryIndex(filepath.Join(path, VectorsFile))
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	var records chunkRecords
	if err := readGob(filepath.Join(path, ChunksFile), &records); err != nil {
		return nil, corrupt(path, "%v", err)
	}
	byID := make(map[string]*models.Chunk, len(records.Chunks))
	for _, c := range records.Chunks {
		byID[c.ID] = c
	}
	idx, err := newMemoryIndex(path, manifest, vectors, byID)
	if err != nil {
		return nil, err
	}
	b.opts.logger.Debug("flat index loaded", zap.String("path", path), zap.Int("chunks", idx.Size()))
	return idx, nil
}

func writeManifest(path string, m *models.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func readManifest(path string) (models.Manifest, error) {
	var m models.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != models.ManifestVersion {
		return m, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return m, nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
