package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"pdfrag/internal/domain"
)

// DefaultMinLength is the shortest trimmed chunk kept by a WindowChunker.
const DefaultMinLength = 40

// WindowChunker splits text into overlapping fixed-size character windows.
type WindowChunker struct {
	size      int
	overlap   int
	minLength int
}

// NewWindowChunker returns a chunker producing windows of size runes that
// start every size-overlap runes. minLength <= 0 selects DefaultMinLength.
func NewWindowChunker(size, overlap, minLength int) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidChunkParams, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidChunkParams, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)", domain.ErrInvalidChunkParams, overlap, size)
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &WindowChunker{
		size:      size,
		overlap:   overlap,
		minLength: minLength,
	}, nil
}

// Stride returns the distance between consecutive window starts.
func (c *WindowChunker) Stride() int {
	return c.size - c.overlap
}

func (c *WindowChunker) Chunk(text string) ([]domain.Chunk, error) {
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	stride := c.Stride()

	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		window := string(runes[start:end])
		trimmed := strings.TrimSpace(window)
		if trimmed == "" {
			continue
		}
		if len([]rune(trimmed)) < c.minLength {
			continue
		}

		lead := len([]rune(window)) - len([]rune(strings.TrimLeftFunc(window, unicode.IsSpace)))
		chunks = append(chunks, domain.Chunk{
			Index:  len(chunks),
			Offset: start + lead,
			Text:   trimmed,
		})
	}

	return chunks, nil
}

// Windows returns how many windows Chunk visits for a text of n runes.
func (c *WindowChunker) Windows(n int) int {
	if n <= 0 {
		return 0
	}
	stride := c.Stride()
	return (n + stride - 1) / stride
}
