package usecase

import (
	"context"
	"errors"
	"strings"

	"pdfrag/internal/domain"
)

type fakeExtractor struct {
	doc domain.Document
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (domain.Document, error) {
	if f.err != nil {
		return domain.Document{}, f.err
	}
	doc := f.doc
	doc.Path = path
	return doc, nil
}

// lengthEmbedder maps a text to a 2-d vector of (rune count, word count)
// so distances are easy to reason about in tests.
type lengthEmbedder struct {
	calls   [][]string
	short   bool // return one vector less than requested
	empty   bool // return empty vectors
	failErr error
}

func (e *lengthEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, texts)
	if e.failErr != nil {
		return nil, e.failErr
	}
	if e.short {
		return make([][]float32, len(texts)-1), nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if e.empty {
			out[i] = []float32{}
			continue
		}
		out[i] = []float32{float32(len([]rune(t))), float32(len(strings.Fields(t)))}
	}
	return out, nil
}

func (e *lengthEmbedder) Dimension() int    { return 2 }
func (e *lengthEmbedder) ModelName() string { return "length" }

type fakeLLM struct {
	prompts []string
	system  string
	reply   string
	err     error
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	l.prompts = append(l.prompts, prompt)
	return l.reply, l.err
}

func (l *fakeLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	l.system = systemPrompt
	return l.Generate(ctx, userPrompt)
}

func (l *fakeLLM) ModelName() string { return "fake" }

var errBackend = errors.New("backend down")
