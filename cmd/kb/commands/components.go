package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/config"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/embedding"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/indexer"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/loader"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/search"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/storage"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/pkg/utils"
)

// indexFlags override where the index lives and how it is embedded.
type indexFlags struct {
	provider string
	backend  string
	path     string
}

func addIndexFlags(cmd *cobra.Command, f *indexFlags) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "embedding provider: onnx, openai or hash (default from config)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "index backend: flat or sqlite (default from config)")
	cmd.Flags().StringVar(&f.path, "index", "", "index location (default from config)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *globalOptions, f *indexFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		cfg.Debug = true
	}
	if f != nil {
		if f.provider != "" {
			cfg.Embedding.Provider = f.provider
		}
		if f.backend != "" {
			cfg.Index.Backend = f.backend
		}
		if f.path != "" {
			cfg.Index.Path = f.path
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// components is the wired application for one command invocation.
type components struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend storage.Backend
	Engine  *search.Engine
}

// newComponents wires the backend and search engine. quiet suppresses
// non-debug logging for interactive commands.
func newComponents(cfg *config.Config, quiet bool) (*components, error) {
	var logger *zap.Logger
	if quiet && !cfg.Debug {
		logger = zap.NewNop()
	} else {
		var err error
		logger, err = utils.NewLogger(cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	backend, err := storage.NewBackend(cfg.Index.Backend, storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	embCfg := cfg.Embedding
	engine := search.NewEngine(backend, cfg.Index.Path, cfg.Embedding.Provider,
		func(provider string) (embedding.Embedder, error) {
			return embedding.New(provider, embCfg)
		},
		search.WithLogger(logger),
		search.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit),
	)
	return &components{Config: cfg, Logger: logger, Backend: backend, Engine: engine}, nil
}

// newIndexer builds an indexer for the configured default provider. The
// returned embedder must be closed by the caller.
func (c *components) newIndexer() (*indexer.Indexer, embedding.Embedder, error) {
	cfg := c.Config
	chunker, err := indexer.NewChunker(cfg.Chunker.Size, cfg.Chunker.OverlapOrDefault())
	if err != nil {
		return nil, nil, err
	}
	emb, err := embedding.New(cfg.Embedding.Provider, cfg.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s embedder: %w", cfg.Embedding.Provider, err)
	}
	idx := indexer.NewIndexer(
		loader.New(cfg.Ingest.Extensions, loader.WithLogger(c.Logger)),
		chunker,
		emb,
		c.Backend,
		cfg.Index.Path,
		indexer.WithLogger(c.Logger),
	)
	return idx, emb, nil
}

// Close releases the engine and flushes the logger.
func (c *components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
