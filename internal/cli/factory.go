package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfrag/config"
	"pdfrag/internal/adapter/cache"
	"pdfrag/internal/adapter/chunker"
	"pdfrag/internal/adapter/embedding"
	"pdfrag/internal/adapter/llm"
	"pdfrag/internal/adapter/memstore"
	"pdfrag/internal/adapter/pdf"
	"pdfrag/internal/adapter/sqlite"
	"pdfrag/internal/adapter/store"
	"pdfrag/internal/port"
	"pdfrag/internal/usecase"
)

func newChunker(cfg *config.Config) (*chunker.WindowChunker, error) {
	return chunker.NewWindowChunker(cfg.Chunk.Size, cfg.Chunk.Overlap, cfg.Chunk.MinLength)
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	emb, err := newProviderEmbedder(cfg)
	if err != nil || cfg.Embedding.CacheSize <= 0 {
		return emb, err
	}
	return cache.NewCachedEmbedder(emb, cache.NewEmbeddingCache(cfg.Embedding.CacheSize)), nil
}

func newProviderEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func newLLM(cfg *config.Config) (port.LLM, error) {
	switch cfg.Generate.Provider {
	case "ollama":
		return llm.NewOllamaLLM(cfg.Generate.Model, cfg.Generate.BaseURL), nil
	case "openai":
		return llm.NewOpenAILLM(cfg.Generate.APIKeyEnv, cfg.Generate.Model, cfg.Generate.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported generate provider: %s", cfg.Generate.Provider)
	}
}

// openIndex opens the configured backend. The returned location is
// empty for the in-memory backend.
func openIndex(cfg *config.Config, dir string) (port.VectorIndex, string, error) {
	if cfg.Index.Backend == "memory" {
		return memstore.NewMemoryIndex(), "", nil
	}

	path := cfg.IndexPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create index directory: %w", err)
	}

	switch cfg.Index.Backend {
	case "bolt":
		idx, err := store.NewBoltIndex(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open index store: %w", err)
		}
		return idx, path, nil
	case "sqlite":
		idx, err := sqlite.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open index store: %w", err)
		}
		return idx, path, nil
	default:
		return nil, "", fmt.Errorf("unsupported index backend: %s", cfg.Index.Backend)
	}
}

// openExistingIndex opens a persistent index that `pdfrag index` built.
func openExistingIndex(cfg *config.Config, dir string) (port.VectorIndex, error) {
	if cfg.Index.Backend == "memory" {
		return nil, fmt.Errorf("the memory backend does not persist; use --backend bolt or sqlite, or 'pdfrag run'")
	}
	path := cfg.IndexPath(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found at %s. Run 'pdfrag index' first", path)
	}
	idx, _, err := openIndex(cfg, dir)
	return idx, err
}

func newIndexUseCase(cfg *config.Config, embedder port.Embedder, index port.VectorIndex) (*usecase.IndexUseCase, error) {
	chk, err := newChunker(cfg)
	if err != nil {
		return nil, err
	}
	return usecase.NewIndexUseCase(
		pdf.NewAutoExtractor(),
		chk,
		embedder,
		index,
		cfg.Embedding.BatchSize,
		GetLogger(),
	), nil
}

func collectionOptions(cfg *config.Config) port.CollectionOptions {
	return port.CollectionOptions{
		Distance:  cfg.Index.Distance,
		Dimension: cfg.Embedding.Dimension,
	}
}

func effectiveTopK(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Retrieve.TopK
}
