package config

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderONNX   = "onnx"
	ProviderHash   = "hash"
)

// ONNX output pooling modes. PoolingNone expects the model to emit one vector per input.
const (
	PoolingMean = "mean"
	PoolingNone = "none"
)

// ONNX tokenizers.
const (
	TokenizerWordPiece = "wordpiece"
	TokenizerHash      = "hash"
)

// Chunking defaults, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Index backend names.
const (
	BackendFlat   = "flat"
	BackendSQLite = "sqlite"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Ingest.Directory == "" {
		cfg.Ingest.Directory = "./data"
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".txt"}
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = DefaultChunkSize
	}
	if cfg.Chunker.Overlap == nil {
		overlap := DefaultChunkOverlap
		cfg.Chunker.Overlap = &overlap
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = BackendFlat
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "./vector_index"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderONNX
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1000
	}
	if cfg.Embedding.OpenAI.Model == "" {
		cfg.Embedding.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.OpenAI.APIKeyEnv == "" {
		cfg.Embedding.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.OpenAI.BatchSize == 0 {
		cfg.Embedding.OpenAI.BatchSize = 100
	}
	if cfg.Embedding.OpenAI.TimeoutSeconds == 0 {
		cfg.Embedding.OpenAI.TimeoutSeconds = 30
	}
	if cfg.Embedding.ONNX.Model == "" {
		cfg.Embedding.ONNX.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Embedding.ONNX.ModelPath == "" {
		cfg.Embedding.ONNX.ModelPath = "./models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.ONNX.VocabPath == "" {
		cfg.Embedding.ONNX.VocabPath = "./models/vocab.txt"
	}
	if cfg.Embedding.ONNX.Tokenizer == "" {
		cfg.Embedding.ONNX.Tokenizer = TokenizerWordPiece
	}
	if cfg.Embedding.ONNX.OutputName == "" {
		cfg.Embedding.ONNX.OutputName = "last_hidden_state"
	}
	if cfg.Embedding.ONNX.Pooling == "" {
		cfg.Embedding.ONNX.Pooling = PoolingMean
	}
	if cfg.Embedding.ONNX.Dimensions == 0 {
		cfg.Embedding.ONNX.Dimensions = 384
	}
	if cfg.Embedding.ONNX.MaxTokens == 0 {
		cfg.Embedding.ONNX.MaxTokens = 256
	}
	if cfg.Embedding.Hash.Dimensions == 0 {
		cfg.Embedding.Hash.Dimensions = 512
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 3
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 10
	}
	if cfg.Search.TruncateAt == 0 {
		cfg.Search.TruncateAt = 1000
	}
}
