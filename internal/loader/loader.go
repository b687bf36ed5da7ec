// Package loader reads plain-text documents from a directory.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/fileid"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"go.uber.org/zap"
)

// ErrRead wraps any failure to list the directory or read a matching file.
var ErrRead = errors.New("read documents")

// Loader loads every matching file in a directory as a Document.
type Loader struct {
	extensions []string
	logger     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// New returns a Loader accepting the given extensions (case-insensitive, leading dot optional).
// An empty list accepts only ".txt".
func New(extensions []string, opts ...Option) *Loader {
	if len(extensions) == 0 {
		extensions = []string{".txt"}
	}
	ld := &Loader{extensions: extensions, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadDirectory reads the regular files directly inside dir whose extension is accepted,
// in name order. Subdirectories are not descended. Any read failure aborts the load.
func (ld *Loader) LoadDirectory(dir string) ([]*models.Document, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: absolute path: %v", ErrRead, err)
	}
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrRead, absDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ExtensionAllowed(filepath.Ext(e.Name()), ld.extensions) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]*models.Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(absDir, name)
		// Resolve symlinks so only regular files are read.
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", ErrRead, path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		doc, err := ld.LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	ld.logger.Debug("loader directory read", zap.String("dir", absDir), zap.Int("documents", len(docs)))
	return docs, nil
}

// LoadFile reads one file as a Document whose Source is the absolute path.
func (ld *Loader) LoadFile(path string) (*models.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: absolute path: %v", ErrRead, err)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return &models.Document{
		ID:      fileid.FileDocID(absPath),
		Source:  absPath,
		Content: decodePlain(content),
	}, nil
}

// ExtensionAllowed reports whether ext is in allowed, ignoring case and the leading dot.
func ExtensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
