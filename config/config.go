package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for pdfrag.
type Config struct {
	Chunk     ChunkConfig     `yaml:"chunk"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Generate  GenerateConfig  `yaml:"generate"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkConfig holds chunking configuration. Sizes are in characters.
type ChunkConfig struct {
	Size      int `yaml:"size"`
	Overlap   int `yaml:"overlap"`
	MinLength int `yaml:"min_length"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "ollama", "openai", "mock"
	Model     string `yaml:"model"`       // e.g., "mxbai-embed-large"
	BaseURL   string `yaml:"base_url"`    // empty selects the provider default
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	Dimension int    `yaml:"dimension"`   // 0 = take it from the first vector
	BatchSize int    `yaml:"batch_size"`
	CacheSize int    `yaml:"cache_size"` // 0 disables the embedding cache
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	Backend    string `yaml:"backend"` // "memory", "bolt", "sqlite"
	Collection string `yaml:"collection"`
	Path       string `yaml:"path"`     // empty selects .pdfrag/index.<backend>
	Distance   string `yaml:"distance"` // "l2", "cosine", "ip"
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// GenerateConfig holds generative model configuration.
type GenerateConfig struct {
	Provider  string `yaml:"provider"` // "ollama", "openai"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	System    string `yaml:"system"` // optional system prompt
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Size:      600,
			Overlap:   100,
			MinLength: 40,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "mxbai-embed-large",
			APIKeyEnv: "OPENAI_API_KEY",
			BatchSize: 16,
			CacheSize: 1024,
		},
		Index: IndexConfig{
			Backend:    "memory",
			Collection: "docs",
			Distance:   "l2",
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Generate: GenerateConfig{
			Provider:  "ollama",
			Model:     "llama3.2",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for pdfrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "pdfrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".pdfrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Chunk.Size <= 0 {
		return fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size)
	}
	if c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.Size {
		return fmt.Errorf("chunk.overlap must be in [0, %d), got %d", c.Chunk.Size, c.Chunk.Overlap)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Retrieve.TopK <= 0 {
		return fmt.Errorf("retrieve.top_k must be positive, got %d", c.Retrieve.TopK)
	}
	if c.Index.Collection == "" {
		return errors.New("index.collection must not be empty")
	}

	if !oneOf(c.Embedding.Provider, "ollama", "openai", "mock") {
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}
	if !oneOf(c.Generate.Provider, "ollama", "openai") {
		return fmt.Errorf("unsupported generate provider: %s", c.Generate.Provider)
	}
	if !oneOf(c.Index.Backend, "memory", "bolt", "sqlite") {
		return fmt.Errorf("unsupported index backend: %s", c.Index.Backend)
	}
	if !oneOf(c.Index.Distance, "", "l2", "cosine", "ip") {
		return fmt.Errorf("unsupported distance: %s", c.Index.Distance)
	}
	if !oneOf(c.Logging.Format, "", "console", "json") {
		return fmt.Errorf("unsupported logging format: %s", c.Logging.Format)
	}
	return nil
}

// IndexPath returns the file used by a persistent backend.
func (c *Config) IndexPath(dir string) string {
	if c.Index.Path != "" {
		if filepath.IsAbs(c.Index.Path) {
			return c.Index.Path
		}
		return filepath.Join(dir, c.Index.Path)
	}
	return filepath.Join(dir, ".pdfrag", "index."+c.Index.Backend)
}

// DefaultPath returns where `config init` writes the configuration.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "pdfrag.yaml")
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
