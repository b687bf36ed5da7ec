package embedding

import (
	"fmt"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
)

// Provider names, as accepted in configuration and on the command line.
const (
	ProviderOpenAI = config.ProviderOpenAI
	ProviderONNX   = config.ProviderONNX
	ProviderHash   = config.ProviderHash
)

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderONNX, ProviderOpenAI, ProviderHash}
}

// New creates the embedder named provider from cfg. Hosted and model-backed
// providers are wrapped in an LRU cache sized by cfg.CacheSize.
func New(provider string, cfg config.EmbeddingConfig) (Embedder, error) {
	switch provider {
	case ProviderOpenAI:
		e, err := NewOpenAIEmbedder(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return WithCache(e, cfg.CacheSize), nil
	case ProviderONNX:
		e, err := NewONNXEmbedder(cfg.ONNX)
		if err != nil {
			return nil, err
		}
		return WithCache(e, cfg.CacheSize), nil
	case ProviderHash:
		return NewHashEmbedder(cfg.Hash.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, provider)
	}
}
