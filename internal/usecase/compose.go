package usecase

import (
	"strings"

	"pdfrag/internal/domain"
)

// ContextSeparator separates retrieved passages in a composed context.
const ContextSeparator = "\n\n---\n\n"

// ComposeContext joins the retrieved documents in the order given,
// closest first, and trims the result.
func ComposeContext(results []domain.QueryResult) string {
	docs := make([]string, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return strings.TrimSpace(strings.Join(docs, ContextSeparator))
}
