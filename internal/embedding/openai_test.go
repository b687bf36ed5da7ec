package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

func fakeOpenAI(t *testing.T, dims int, status int, requests *[]embeddingRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if requests != nil {
			*requests = append(*requests, req)
		}
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
			return
		}
		data := make([]map[string]any, len(req.Input))
		// Reverse order to check that results are re-sorted by index.
		for i := range req.Input {
			idx := len(req.Input) - 1 - i
			vec := make([]float32, dims)
			vec[idx%dims] = float32(idx + 2)
			data[i] = map[string]any{"object": "embedding", "index": idx, "embedding": vec}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAIConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     8,
		APIKeyEnv:      "KB_TEST_OPENAI_KEY",
		BaseURL:        baseURL,
		BatchSize:      2,
		TimeoutSeconds: 5,
	}
}

func TestNewOpenAIEmbedder_missingKey(t *testing.T) {
	t.Setenv("KB_TEST_OPENAI_KEY", "")
	_, err := NewOpenAIEmbedder(openAIConfig("http://unused"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewOpenAIEmbedder_knownModelDimensions(t *testing.T) {
	t.Setenv("KB_TEST_OPENAI_KEY", "test-key")
	cfg := openAIConfig("http://unused")
	cfg.Dimensions = 0
	e, err := NewOpenAIEmbedder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if e.Dimensions() != 1536 {
		t.Errorf("Dimensions = %d, want 1536", e.Dimensions())
	}

	cfg.Model = "some-custom-model"
	if _, err := NewOpenAIEmbedder(cfg); err == nil {
		t.Error("unknown model without dimensions should fail")
	}
}

func TestOpenAIEmbedder_EmbedBatch(t *testing.T) {
	t.Setenv("KB_TEST_OPENAI_KEY", "test-key")
	var requests []embeddingRequest
	srv := fakeOpenAI(t, 8, http.StatusOK, &requests)
	e, err := NewOpenAIEmbedder(openAIConfig(srv.URL + "/v1"))
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != ProviderOpenAI || e.Model() != "text-embedding-3-small" {
		t.Errorf("identity = %s/%s", e.Name(), e.Model())
	}

	out, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(requests) != 2 {
		t.Errorf("requests = %d, want 2 batches", len(requests))
	}
	if len(out) != 3 {
		t.Fatalf("got %d vectors", len(out))
	}
	// Input i maps to a one-hot vector at position i within its batch.
	wantHot := []int{0, 1, 0}
	for i, v := range out {
		if v[wantHot[i]] != 1 {
			t.Errorf("vector %d = %v, want unit at %d", i, v, wantHot[i])
		}
	}
}

func TestOpenAIEmbedder_providerError(t *testing.T) {
	t.Setenv("KB_TEST_OPENAI_KEY", "test-key")
	var requests []embeddingRequest
	srv := fakeOpenAI(t, 8, http.StatusTooManyRequests, &requests)
	e, err := NewOpenAIEmbedder(openAIConfig(srv.URL + "/v1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "Project Pinda"); err == nil {
		t.Fatal("expected provider error")
	}
	if len(requests) != 1 {
		t.Errorf("requests = %d; provider errors must not be retried", len(requests))
	}
}
