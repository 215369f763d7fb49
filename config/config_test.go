package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunk.Size != 600 {
		t.Errorf("expected Chunk.Size=600, got %d", cfg.Chunk.Size)
	}
	if cfg.Chunk.Overlap != 100 {
		t.Errorf("expected Chunk.Overlap=100, got %d", cfg.Chunk.Overlap)
	}
	if cfg.Embedding.Model != "mxbai-embed-large" {
		t.Errorf("expected mxbai-embed-large, got %s", cfg.Embedding.Model)
	}
	if cfg.Generate.Model != "llama3.2" {
		t.Errorf("expected llama3.2, got %s", cfg.Generate.Model)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Index.Collection != "docs" {
		t.Errorf("expected collection docs, got %s", cfg.Index.Collection)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pdfrag.yaml")

	content := `
chunk:
  size: 400
  overlap: 50
index:
  backend: bolt
retrieve:
  top_k: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunk.Size != 400 {
		t.Errorf("expected Chunk.Size=400, got %d", cfg.Chunk.Size)
	}
	if cfg.Chunk.Overlap != 50 {
		t.Errorf("expected Chunk.Overlap=50, got %d", cfg.Chunk.Overlap)
	}
	if cfg.Index.Backend != "bolt" {
		t.Errorf("expected backend bolt, got %s", cfg.Index.Backend)
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Embedding.Model != "mxbai-embed-large" {
		t.Errorf("unset fields should keep defaults, got model %s", cfg.Embedding.Model)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pdfrag.yaml")
	if err := os.WriteFile(configPath, []byte("chunk: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".pdfrag"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".pdfrag", "config.yaml")

	content := `
generate:
  model: mistral
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generate.Model != "mistral" {
		t.Errorf("expected model mistral, got %s", cfg.Generate.Model)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := DefaultPath(tmpDir)

	cfg := DefaultConfig()
	cfg.Index.Backend = "sqlite"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Index.Backend != "sqlite" {
		t.Errorf("expected backend sqlite, got %s", loaded.Index.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"overlap equals size", func(c *Config) { c.Chunk.Overlap = c.Chunk.Size }},
		{"negative overlap", func(c *Config) { c.Chunk.Overlap = -1 }},
		{"zero size", func(c *Config) { c.Chunk.Size = 0 }},
		{"zero top k", func(c *Config) { c.Retrieve.TopK = 0 }},
		{"zero batch", func(c *Config) { c.Embedding.BatchSize = 0 }},
		{"unknown backend", func(c *Config) { c.Index.Backend = "chroma" }},
		{"unknown distance", func(c *Config) { c.Index.Distance = "hamming" }},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "voyage" }},
		{"empty collection", func(c *Config) { c.Index.Collection = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIndexPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.Backend = "bolt"

	path := cfg.IndexPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".pdfrag", "index.bolt")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}

	cfg.Index.Path = "data/cv.db"
	path = cfg.IndexPath("/home/user/project")
	expected = filepath.Join("/home/user/project", "data", "cv.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
