// Package fileid derives deterministic document and chunk IDs from file paths.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

const prefix = "doc:"

// FileDocID returns a stable document ID for the given path.
// Paths that clean to the same value share an ID.
func FileDocID(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:8])
}

// ChunkID returns the ID of the index-th chunk of a document.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s#%d", docID, index)
}
