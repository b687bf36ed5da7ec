// Package indexer splits documents into chunks and builds the persisted vector index.
package indexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/fileid"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
)

// Chunker splits text into overlapping character windows.
// Every chunk holds at most size runes, and consecutive chunks of one document
// share exactly overlap runes.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given size and overlap, in characters.
// Size must be positive and overlap must be in [0, size).
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the maximum chunk length in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of runes shared by consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits the document into chunks carrying its source path in metadata.
// A blank document yields no chunks.
func (c *Chunker) Chunk(doc *models.Document) []*models.Chunk {
	windows := c.Split(doc.Content)
	if len(windows) == 0 {
		return nil
	}
	chunks := make([]*models.Chunk, len(windows))
	for i, text := range windows {
		chunks[i] = &models.Chunk{
			ID:         fileid.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Index:      i,
			Content:    text,
			Metadata:   map[string]string{models.MetaSource: doc.Source},
		}
	}
	return chunks
}

// Split returns the chunk texts for text. A window that would overflow is cut
// after the last whitespace that still leaves it longer than the overlap, or
// at exactly size runes when there is none. The next window starts overlap
// runes before the cut.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	var out []string
	start := 0
	for {
		if len(runes)-start <= c.size {
			tail := string(runes[start:])
			if len(out) == 0 || strings.TrimSpace(tail) != "" {
				out = append(out, tail)
			}
			return out
		}
		end := start + c.size
		for j := end; j > start+c.overlap; j-- {
			if unicode.IsSpace(runes[j-1]) {
				end = j
				break
			}
		}
		out = append(out, string(runes[start:end]))
		start = end - c.overlap
	}
}
