package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
)

func TestComposeContext(t *testing.T) {
	results := []domain.QueryResult{
		{ID: "0", Document: "Paris is the capital", Distance: 0.1},
		{ID: "3", Document: "France is in Europe", Distance: 0.4},
	}
	assert.Equal(t, "Paris is the capital\n\n---\n\nFrance is in Europe", ComposeContext(results))
}

func TestComposeContext_KeepsOrderAndTrims(t *testing.T) {
	results := []domain.QueryResult{
		{Document: "  far  ", Distance: 0.9},
		{Document: "near\n", Distance: 0.1},
	}
	assert.Equal(t, "far  \n\n---\n\nnear", ComposeContext(results))
	assert.Equal(t, "", ComposeContext(nil))
	assert.Equal(t, "only", ComposeContext([]domain.QueryResult{{Document: "only"}}))
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("Paris is the capital", "What is the capital?")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Paris is the capital")
	assert.Contains(t, prompt, "Question: What is the capital?")
	assert.Contains(t, prompt, "'"+FallbackAnswer+"'")
	assert.Contains(t, prompt, "Using ONLY the information provided above")
	assert.Contains(t, prompt, "cite (by chunk index)")
	assert.Equal(t, prompt, strings.TrimSpace(prompt))
	assert.Less(t, strings.Index(prompt, "Paris"), strings.Index(prompt, "Question:"))
}

func TestBuildPrompt_Verbatim(t *testing.T) {
	prompt, err := BuildPrompt("<b>{{.Question}}</b> & more", "a < b?")
	require.NoError(t, err)
	assert.Contains(t, prompt, "<b>{{.Question}}</b> & more")
	assert.Contains(t, prompt, "Question: a < b?")
}
