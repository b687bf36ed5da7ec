package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/loader"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/models"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/storage"
)

var aakiTechDocs = map[string]string{
	"sales_goals.txt":        "AakiTech sales goals for Q3: grow recurring revenue to 2 million and close ten enterprise deals.",
	"marketing_strategy.txt": "Marketing strategy: position AakiTech as the partner for AI integrations through webinars and case studies.",
	"onboarding.txt":         "New employee onboarding covers laptop setup, security training and meeting the team.",
}

func hashFactory(dims int) EmbedderFactory {
	return func(provider string) (embedding.Embedder, error) {
		if provider != embedding.ProviderHash {
			return nil, models.ErrUnknownProvider
		}
		return embedding.NewHashEmbedder(dims), nil
	}
}

func buildIndex(t *testing.T, backend storage.Backend, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	chunker, err := indexer.NewChunker(500, 50)
	if err != nil {
		t.Fatal(err)
	}
	indexPath := filepath.Join(t.TempDir(), "vector_index")
	idx := indexer.NewIndexer(loader.New([]string{".txt"}), chunker, embedding.NewHashEmbedder(256), backend, indexPath)
	if _, err := idx.IndexDirectory(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	return indexPath
}

func TestEngine_Search(t *testing.T) {
	for _, backend := range []storage.Backend{storage.NewFlatBackend(), storage.NewSQLiteBackend()} {
		t.Run(backend.Name(), func(t *testing.T) {
			indexPath := buildIndex(t, backend, aakiTechDocs)
			engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
			defer engine.Close()

			resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "What are the sales goals?"})
			if err != nil {
				t.Fatal(err)
			}
			if resp.Total != 3 || len(resp.Results) != 3 {
				t.Fatalf("results = %d, want 3 (default limit)", len(resp.Results))
			}
			top := resp.Results[0]
			if got := filepath.Base(top.Chunk.Source()); got != "sales_goals.txt" {
				t.Errorf("top source = %q, want sales_goals.txt", got)
			}
			for i, r := range resp.Results {
				if r.Rank != i+1 {
					t.Errorf("result %d rank = %d", i, r.Rank)
				}
				if i > 0 && r.Score > resp.Results[i-1].Score {
					t.Errorf("scores not descending at %d: %v > %v", i, r.Score, resp.Results[i-1].Score)
				}
			}
			if resp.Provider != embedding.ProviderHash {
				t.Errorf("provider = %q", resp.Provider)
			}
		})
	}
}

func TestEngine_SearchLimit(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := buildIndex(t, backend, aakiTechDocs)
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 1, want: 1},
		{limit: 2, want: 2},
		{limit: 10, want: 3},
		{limit: 50, want: 3},
		{limit: 0, want: 3},
	}
	for _, tt := range tests {
		resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "marketing strategy", Limit: tt.limit})
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Results) != tt.want {
			t.Errorf("limit %d: got %d results, want %d", tt.limit, len(resp.Results), tt.want)
		}
	}
}

func TestEngine_EmptyQuery(t *testing.T) {
	engine := NewEngine(storage.NewFlatBackend(), filepath.Join(t.TempDir(), "none"), embedding.ProviderHash, hashFactory(256))
	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := engine.Search(context.Background(), &models.SearchQuery{Query: q})
		if !errors.Is(err, models.ErrEmptyQuery) {
			t.Errorf("Search(%q) err = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestEngine_MissingIndex(t *testing.T) {
	engine := NewEngine(storage.NewFlatBackend(), filepath.Join(t.TempDir(), "vector_index"), embedding.ProviderHash, hashFactory(256))
	_, err := engine.Search(context.Background(), &models.SearchQuery{Query: "sales"})
	if !errors.Is(err, models.ErrIndexNotFound) {
		t.Fatalf("err = %v, want ErrIndexNotFound", err)
	}
	st, err := engine.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Ready || st.Error == "" {
		t.Errorf("status = %+v, want not ready with error", st)
	}
}

func TestEngine_ProviderMismatch(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := buildIndex(t, backend, aakiTechDocs)

	t.Run("provider name", func(t *testing.T) {
		engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
		defer engine.Close()
		_, err := engine.Search(context.Background(), &models.SearchQuery{Query: "sales", Provider: embedding.ProviderOpenAI})
		if !errors.Is(err, models.ErrProviderMismatch) {
			t.Fatalf("err = %v, want ErrProviderMismatch", err)
		}
	})

	t.Run("dimensions", func(t *testing.T) {
		engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(128))
		defer engine.Close()
		_, err := engine.Search(context.Background(), &models.SearchQuery{Query: "sales"})
		if !errors.Is(err, models.ErrProviderMismatch) {
			t.Fatalf("err = %v, want ErrProviderMismatch", err)
		}
	})
}

func TestEngine_EmptyIndex(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := buildIndex(t, backend, map[string]string{"notes.md": "not ingested"})
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "anything"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("results = %v, want empty non-nil slice", resp.Results)
	}
}

func TestEngine_StopwordOnlyQuery(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := buildIndex(t, backend, aakiTechDocs)
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	for _, q := range []string{"What is it?", "who are they"} {
		resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: q, Limit: 3})
		if err != nil {
			t.Fatalf("%q: %v", q, err)
		}
		if resp.Results == nil || resp.Total != 0 {
			t.Errorf("%q: results = %v, want empty non-nil slice", q, resp.Results)
		}
	}
}

func TestEngine_CachesIndexUntilReload(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := buildIndex(t, backend, aakiTechDocs)
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	ctx := context.Background()
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "sales"}); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(indexPath); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "sales"}); err != nil {
		t.Fatalf("cached index should still serve queries: %v", err)
	}
	if err := engine.Reload(); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "sales"}); !errors.Is(err, models.ErrIndexNotFound) {
		t.Fatalf("after reload err = %v, want ErrIndexNotFound", err)
	}
}

func TestEngine_FailedLoadIsNotCached(t *testing.T) {
	backend := storage.NewFlatBackend()
	indexPath := filepath.Join(t.TempDir(), "vector_index")
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	ctx := context.Background()
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "sales"}); !errors.Is(err, models.ErrIndexNotFound) {
		t.Fatalf("err = %v, want ErrIndexNotFound", err)
	}

	built := buildIndex(t, backend, aakiTechDocs)
	if err := os.Rename(built, indexPath); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Search(ctx, &models.SearchQuery{Query: "sales"}); err != nil {
		t.Fatalf("search after ingest: %v", err)
	}
}

func TestEngine_Status(t *testing.T) {
	backend := storage.NewSQLiteBackend()
	indexPath := buildIndex(t, backend, aakiTechDocs)
	engine := NewEngine(backend, indexPath, embedding.ProviderHash, hashFactory(256))
	defer engine.Close()

	st, err := engine.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !st.Ready || st.Manifest == nil {
		t.Fatalf("status = %+v, want ready", st)
	}
	if st.Manifest.Documents != 3 || st.Manifest.Provider != embedding.ProviderHash {
		t.Errorf("manifest = %+v", st.Manifest)
	}
	if len(st.Sources) != 3 {
		t.Errorf("sources = %v", st.Sources)
	}
	if st.DiskBytes <= 0 {
		t.Errorf("disk bytes = %d", st.DiskBytes)
	}
}

func TestProcessQuery(t *testing.T) {
	q := &models.SearchQuery{Query: "  sales  ", Provider: " Hash ", Limit: 99}
	if err := ProcessQuery(q, 3, 10); err != nil {
		t.Fatal(err)
	}
	if q.Query != "sales" || q.Provider != "hash" || q.Limit != 10 {
		t.Errorf("processed = %+v", q)
	}
	if err := ProcessQuery(nil, 3, 10); !errors.Is(err, models.ErrEmptyQuery) {
		t.Errorf("nil query err = %v", err)
	}
}
