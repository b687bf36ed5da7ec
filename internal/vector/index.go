// Package vector provides exact nearest-neighbour search over normalized embeddings.
package vector

import "context"

// VectorIndex stores vectors by ID and answers top-k similarity queries.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Dimensions() int
	Size() int
	Close() error
}

// VectorResult is a single vector search hit; ID is the chunk ID.
type VectorResult struct {
	ID    string
	Score float64 // inner product; cosine similarity in [-1, 1] for normalized vectors
}
