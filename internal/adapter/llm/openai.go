package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOllamaBaseURL = "http://localhost:11434/v1"
)

var errNoChoices = errors.New("model returned no choices")

// OpenAILLM generates text through an OpenAI-compatible chat completion
// endpoint. Each prompt is sent as a single user message.
type OpenAILLM struct {
	client *openai.Client
	model  string
}

func NewOpenAILLM(apiKeyEnv, model, baseURL string) (*OpenAILLM, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return newLLM(apiKey, model, baseURL, 2*time.Minute), nil
}

func NewOllamaLLM(model, baseURL string) *OpenAILLM {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	// Local generation on CPU can be slow.
	return newLLM("ollama", model, baseURL, 10*time.Minute)
}

func newLLM(apiKey, model, baseURL string, timeout time.Duration) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAILLM{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (l *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	return l.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

func (l *OpenAILLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return l.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	})
}

func (l *OpenAILLM) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    l.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func (l *OpenAILLM) ModelName() string {
	return l.model
}
