package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// FallbackAnswer is the reply the model is told to give when the
// context does not contain the answer.
const FallbackAnswer = "I don't know."

var answerTemplate = template.Must(
	template.ParseFS(promptTemplates, "templates/answer_prompt.txt"),
)

// PromptData is the input to the answer template.
type PromptData struct {
	Context  string
	Question string
}

// BuildPrompt renders the grounded answer prompt. Context and question
// are inserted verbatim.
func BuildPrompt(context, question string) (string, error) {
	var buf bytes.Buffer
	if err := answerTemplate.Execute(&buf, PromptData{Context: context, Question: question}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
