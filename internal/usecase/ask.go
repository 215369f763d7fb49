package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// AskUseCase answers a question from the closest chunks of a collection.
type AskUseCase struct {
	retriever *RetrieveUseCase
	llm       port.LLM
	system    string
	logger    *zap.Logger
}

// NewAskUseCase creates a new ask use case. A non-empty system prompt is
// sent alongside the grounded prompt.
func NewAskUseCase(retriever *RetrieveUseCase, llm port.LLM, system string, logger *zap.Logger) *AskUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskUseCase{
		retriever: retriever,
		llm:       llm,
		system:    system,
		logger:    logger,
	}
}

// Ask retrieves, composes the prompt and generates the response.
func (u *AskUseCase) Ask(ctx context.Context, coll port.Collection, question string, topK int) (*domain.Answer, error) {
	results, err := u.retriever.Retrieve(ctx, coll, question, topK)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(ComposeContext(results), question)
	if err != nil {
		return nil, err
	}

	var response string
	if u.system != "" {
		response, err = u.llm.GenerateWithSystem(ctx, u.system, prompt)
	} else {
		response, err = u.llm.Generate(ctx, prompt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer with %s: %w", u.llm.ModelName(), err)
	}
	u.logger.Info("generated answer",
		zap.String("model", u.llm.ModelName()),
		zap.Int("context_docs", len(results)),
	)

	return &domain.Answer{
		Question: question,
		Prompt:   prompt,
		Response: response,
		Results:  results,
	}, nil
}
