package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// RetrieveUseCase handles search and retrieval operations.
type RetrieveUseCase struct {
	embedder port.Embedder
	logger   *zap.Logger
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(embedder port.Embedder, logger *zap.Logger) *RetrieveUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetrieveUseCase{embedder: embedder, logger: logger}
}

// Retrieve embeds the question and returns the topK nearest chunks in
// ascending distance.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, coll port.Collection, question string, topK int) ([]domain.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if topK <= 0 {
		return nil, fmt.Errorf("top_k must be positive, got %d", topK)
	}

	vectors, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("question: %w", domain.ErrNoEmbedding)
	}

	results, err := coll.Query(ctx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}

	u.logger.Debug("retrieved",
		zap.String("collection", coll.Name()),
		zap.Strings("ids", domain.IDs(results)),
		zap.Float64s("distances", domain.Distances(results)),
	)
	return results, nil
}
