package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned when the hosted provider has no API key.
var ErrMissingAPIKey = errors.New("missing API key")

var openAIModelDimensions = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint. Requests are not retried;
// a failed batch fails the whole call.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	requestDim int
	batchSize  int
	timeout    time.Duration
}

// NewOpenAIEmbedder creates the hosted embedder from cfg. The API key is read
// from the environment variable named by cfg.APIKeyEnv.
func NewOpenAIEmbedder(cfg config.OpenAIConfig) (*OpenAIEmbedder, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: environment variable %s not set", ErrMissingAPIKey, cfg.APIKeyEnv)
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	dims := cfg.Dimensions
	if dims == 0 {
		dims = openAIModelDimensions[cfg.Model]
	}
	if dims == 0 {
		return nil, fmt.Errorf("unknown dimensions for model %q; set embedding.openai.dimensions", cfg.Model)
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: dims,
		requestDim: cfg.Dimensions,
		batchSize:  batch,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in requests of at most batchSize inputs, preserving order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.request(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

func (e *OpenAIEmbedder) request(ctx context.Context, input []string) ([][]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input:      input,
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.requestDim,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(input))
	}
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) != e.dimensions {
			return nil, fmt.Errorf("openai embeddings: got dimension %d, want %d", len(d.Embedding), e.dimensions)
		}
		v := make([]float32, len(d.Embedding))
		copy(v, d.Embedding)
		utils.NormalizeL2(v)
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Name returns the provider name.
func (e *OpenAIEmbedder) Name() string { return ProviderOpenAI }

// Model returns the OpenAI model identifier.
func (e *OpenAIEmbedder) Model() string { return e.model }

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (e *OpenAIEmbedder) Close() error { return nil }
