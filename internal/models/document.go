// Package models defines core data structures for documents, chunks, queries, and results.
package models

// MetaSource is the chunk metadata key holding the path of the originating file.
const MetaSource = "source"

// Document is one loaded text file.
type Document struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Chunk is a bounded, overlapping slice of a Document's content.
type Chunk struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Index      int               `json:"chunk_index"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Source returns the chunk's source path, or "" when it carries none.
func (c *Chunk) Source() string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	return c.Metadata[MetaSource]
}
