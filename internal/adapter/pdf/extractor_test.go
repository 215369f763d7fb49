package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
)

func TestAutoExtractorText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two"), 0644))

	doc, err := NewAutoExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, []string{"line one\nline two"}, doc.Pages)
	assert.Equal(t, "line one\nline two", doc.Text())
}

func TestAutoExtractorUnsupported(t *testing.T) {
	_, err := NewAutoExtractor().Extract(context.Background(), "/tmp/sheet.xlsx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestExtractorInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

	_, err := NewExtractor().Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestDocumentTextJoinsPages(t *testing.T) {
	doc := domain.Document{Pages: []string{"first", "", "third"}}
	assert.Equal(t, "first\n\nthird", doc.Text())
}
