// Package embedding turns text into vectors through a hosted or local provider.
package embedding

import "context"

// Embedder produces unit-length vector embeddings for text.
// Name and Model identify the vector space; an index built by one Embedder
// can only be queried by an Embedder with the same Name, Model, and Dimensions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
	Model() string
	Close() error
}

// embedEach calls embed for every text in order, stopping at the first error.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}
