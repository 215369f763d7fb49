package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"pdfrag/internal/adapter/fs"
	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// Extractor reads the plain text of every page of a PDF file.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string) (domain.Document, error) {
	f, r, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to open pdf: %w", err)
	}

	total := r.NumPage()
	if total == 0 {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNoPages, path)
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Document{}, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := plainText(p)
		if err != nil {
			return domain.Document{}, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return domain.Document{Path: path, Pages: pages}, nil
}

// plainText converts panics raised by malformed content streams into errors.
func plainText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	return p.GetPlainText(nil)
}

// TextExtractor treats a plain text file as a single page.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(ctx context.Context, path string) (domain.Document, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	return domain.Document{Path: path, Pages: []string{content}}, nil
}

// AutoExtractor dispatches on the file extension.
type AutoExtractor struct {
	byExt map[string]port.Extractor
}

func NewAutoExtractor() *AutoExtractor {
	text := NewTextExtractor()
	return &AutoExtractor{
		byExt: map[string]port.Extractor{
			".pdf": NewExtractor(),
			".txt": text,
			".md":  text,
		},
	}
}

func (e *AutoExtractor) Extract(ctx context.Context, path string) (domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	x, ok := e.byExt[ext]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, path)
	}
	return x.Extract(ctx, path)
}
