// Package config provides configuration loading and structs for the knowledge base.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// IngestConfig names the document folder and which files in it are read.
type IngestConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
}

// ChunkerConfig bounds chunk length and the shared context between neighbours, in characters.
// Overlap is a pointer so an explicit 0 is kept rather than replaced by the default.
type ChunkerConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

// OverlapOrDefault returns the configured overlap, or DefaultChunkOverlap when unset.
func (c ChunkerConfig) OverlapOrDefault() int {
	if c.Overlap != nil {
		return *c.Overlap
	}
	return DefaultChunkOverlap
}

// IndexConfig selects the persistence backend and where the index lives.
type IndexConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// EmbeddingConfig selects the default provider and holds per-provider settings.
type EmbeddingConfig struct {
	Provider  string       `yaml:"provider"`
	CacheSize int          `yaml:"cache_size"`
	OpenAI    OpenAIConfig `yaml:"openai"`
	ONNX      ONNXConfig   `yaml:"onnx"`
	Hash      HashConfig   `yaml:"hash"`
}

// OpenAIConfig configures the hosted embedding provider.
type OpenAIConfig struct {
	Model          string `yaml:"model"`
	Dimensions     int    `yaml:"dimensions"`
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ONNXConfig configures the local sentence-transformer provider.
// Tokenizer "wordpiece" needs the model's vocabulary at VocabPath; "hash" skips
// it and only suits models trained on hashed token IDs.
type ONNXConfig struct {
	Model       string `yaml:"model"`
	ModelPath   string `yaml:"model_path"`
	VocabPath   string `yaml:"vocab_path"`
	Tokenizer   string `yaml:"tokenizer"`
	LibraryPath string `yaml:"library_path"`
	OutputName  string `yaml:"output_name"`
	Pooling     string `yaml:"pooling"`
	Dimensions  int    `yaml:"dimensions"`
	MaxTokens   int    `yaml:"max_tokens"`
}

// HashConfig configures the dependency-free feature-hashing provider.
type HashConfig struct {
	Dimensions int `yaml:"dimensions"`
}

// SearchConfig holds query and presentation defaults.
type SearchConfig struct {
	DefaultLimit int   `yaml:"default_limit"`
	MaxLimit     int   `yaml:"max_limit"`
	ShowScores   *bool `yaml:"show_scores"`
	TruncateAt   int   `yaml:"truncate_at"`
}

// ShowScoresOrDefault reports whether scores are shown; defaults to true when unset.
func (s *SearchConfig) ShowScoresOrDefault() bool {
	if s.ShowScores != nil {
		return *s.ShowScores
	}
	return true
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or if the result is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.expandPaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists; a missing file yields the built-in defaults
// with paths resolved against the working directory.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}
	cfg := Default()
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg.expandPaths(wd)
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings that the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Chunker.Size <= 0 {
		return fmt.Errorf("chunker.size must be positive, got %d", c.Chunker.Size)
	}
	if overlap := c.Chunker.OverlapOrDefault(); overlap < 0 || overlap >= c.Chunker.Size {
		return fmt.Errorf("chunker.overlap must be in [0, %d), got %d", c.Chunker.Size, overlap)
	}
	switch c.Index.Backend {
	case BackendFlat, BackendSQLite:
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderONNX, ProviderHash:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Embedding.ONNX.Tokenizer {
	case TokenizerWordPiece, TokenizerHash:
	default:
		return fmt.Errorf("unknown onnx tokenizer %q", c.Embedding.ONNX.Tokenizer)
	}
	if c.Search.MaxLimit < 1 || c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search limits invalid: default %d, max %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	return nil
}

func (c *Config) expandPaths(baseDir string) {
	c.Ingest.Directory = expandPath(c.Ingest.Directory, baseDir)
	c.Index.Path = expandPath(c.Index.Path, baseDir)
	if c.Embedding.ONNX.ModelPath != "" {
		c.Embedding.ONNX.ModelPath = expandPath(c.Embedding.ONNX.ModelPath, baseDir)
	}
	if c.Embedding.ONNX.VocabPath != "" {
		c.Embedding.ONNX.VocabPath = expandPath(c.Embedding.ONNX.VocabPath, baseDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" or "../" are relative
// to baseDir; "~/" paths are relative to the home directory; bare names are relative to baseDir.
func expandPath(path string, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(baseDir, path)
}
