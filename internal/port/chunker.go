package port

import "pdfrag/internal/domain"

type Chunker interface {
	Chunk(text string) ([]domain.Chunk, error)
}
