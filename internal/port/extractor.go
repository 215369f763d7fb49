package port

import (
	"context"

	"pdfrag/internal/domain"
)

// Extractor reads a source file and returns its page texts.
// Implementations must release any file handle before returning.
type Extractor interface {
	Extract(ctx context.Context, path string) (domain.Document, error)
}
