package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/vector"
	"go.uber.org/zap"
)

// DatabaseFile is the SQLite file inside a sqlite index directory.
const DatabaseFile = "index.db"

const manifestKey = "manifest"

// SQLiteBackend keeps chunks, their embeddings, and the manifest in one SQLite
// database. Loading reads every row into memory for exact search.
type SQLiteBackend struct {
	opts options
}

// NewSQLiteBackend returns the SQLite-based backend.
func NewSQLiteBackend(opts ...Option) *SQLiteBackend {
	return &SQLiteBackend{opts: applyOptions(opts)}
}

// Name returns "sqlite".
func (b *SQLiteBackend) Name() string { return config.BackendSQLite }

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS manifest (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		source TEXT,
		content TEXT NOT NULL,
		metadata TEXT,
		embedding BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_document_chunk ON chunks(document_id, chunk_index);
	`
	_, err := db.Exec(schema)
	return err
}

// Build writes a new database in a staging directory and swaps it into place at path.
func (b *SQLiteBackend) Build(ctx context.Context, path string, manifest *models.Manifest, chunks []*models.Chunk, vectors [][]float32) error {
	if err := prepareManifest(b.Name(), manifest, chunks, vectors); err != nil {
		return err
	}
	err := replaceDir(path, func(dir string) error {
		db, err := openDB(filepath.Join(dir, DatabaseFile))
		if err != nil {
			return err
		}
		if err := initSchema(db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		if err := insertAll(ctx, db, manifest, chunks, vectors); err != nil {
			_ = db.Close()
			return err
		}
		return db.Close()
	})
	if err != nil {
		return fmt.Errorf("build sqlite index: %w", err)
	}
	b.opts.logger.Debug("sqlite index written", zap.String("path", path), zap.Int("chunks", len(chunks)))
	return nil
}

// insertAll writes the manifest and every chunk in one transaction.
func insertAll(ctx context.Context, db *sql.DB, manifest *models.Manifest, chunks []*models.Chunk, vectors [][]float32) error {
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO manifest (key, value) VALUES (?, ?)`, manifestKey, string(manifestJSON)); err != nil {
		return fmt.Errorf("insert manifest: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, document_id, chunk_index, source, content, metadata, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocumentID, chunk.Index, chunk.Source(), chunk.Content,
			string(metadataJSON), vector.Float32SliceToBytes(vectors[i]),
		); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}
	return tx.Commit()
}

// Load reads the manifest and all chunk rows into an in-memory index.
func (b *SQLiteBackend) Load(ctx context.Context, path string) (Index, error) {
	if err := checkExists(path, DatabaseFile); err != nil {
		return nil, err
	}
	db, err := openDB(filepath.Join(path, DatabaseFile))
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	defer db.Close()

	manifest, err := queryManifest(ctx, db)
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	vectors, err := vector.NewMemoryIndex(manifest.Dimensions)
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	chunks, err := queryChunks(ctx, db, vectors)
	if err != nil {
		return nil, corrupt(path, "%v", err)
	}
	idx, err := newMemoryIndex(path, manifest, vectors, chunks)
	if err != nil {
		return nil, err
	}
	b.opts.logger.Debug("sqlite index loaded", zap.String("path", path), zap.Int("chunks", idx.Size()))
	return idx, nil
}

func queryManifest(ctx context.Context, db *sql.DB) (models.Manifest, error) {
	var m models.Manifest
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM manifest WHERE key = ?`, manifestKey).Scan(&value)
	if err == sql.ErrNoRows {
		return m, fmt.Errorf("manifest row missing")
	}
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal([]byte(value), &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != models.ManifestVersion {
		return m, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return m, nil
}

// queryChunks adds every stored embedding to vectors and returns the chunks by ID.
func queryChunks(ctx context.Context, db *sql.DB, vectors *vector.MemoryIndex) (map[string]*models.Chunk, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, document_id, chunk_index, content, metadata, embedding
		 FROM chunks ORDER BY document_id, chunk_index`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := make(map[string]*models.Chunk)
	for rows.Next() {
		var chunk models.Chunk
		var metadataJSON sql.NullString
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Content, &metadataJSON, &blob); err != nil {
			return nil, err
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("chunk %s metadata: %w", chunk.ID, err)
			}
		}
		vec, err := vector.BytesToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s embedding: %w", chunk.ID, err)
		}
		if err := vectors.Add(ctx, []string{chunk.ID}, [][]float32{vec}); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		chunks[chunk.ID] = &chunk
	}
	return chunks, rows.Err()
}
