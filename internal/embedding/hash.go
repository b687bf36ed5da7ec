package embedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/pkg/utils"
)

const hashModel = "feature-hash-v1"

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

// HashEmbedder is a local bag-of-words embedder using signed feature hashing.
// It needs no model files or network, so vectors are reproducible across runs
// and machines. Texts sharing content words land close together.
type HashEmbedder struct {
	dimensions int
	stopwords  map[string]struct{}
}

// NewHashEmbedder returns a hashing embedder with the given number of buckets.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 512
	}
	return &HashEmbedder{dimensions: dimensions, stopwords: defaultStopwords()}
}

// Embed hashes each content word of text into a bucket with a sign chosen by a
// second hash, then normalizes. Text without content words yields a zero vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	emb := make([]float32, e.dimensions)
	for _, tok := range e.Tokens(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dimensions))
		if (sum>>63)&1 == 1 {
			emb[bucket]--
		} else {
			emb[bucket]++
		}
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

// Tokens returns the lowercased content words of text with possessives stripped.
func (e *HashEmbedder) Tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		t = strings.TrimSuffix(strings.TrimSuffix(t, "'s"), "’s")
		if _, stop := e.stopwords[t]; stop || t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int { return e.dimensions }

// Name returns the provider name.
func (e *HashEmbedder) Name() string { return ProviderHash }

// Model returns the hashing scheme version.
func (e *HashEmbedder) Model() string { return hashModel }

// Close is a no-op.
func (e *HashEmbedder) Close() error { return nil }

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "should", "now", "what", "which", "who",
		"whom", "how", "when", "where", "why", "do", "does", "did", "our", "we", "us", "you", "your",
		"i", "me", "my", "they", "them", "their", "there", "here", "has", "have", "had", "not", "no",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
