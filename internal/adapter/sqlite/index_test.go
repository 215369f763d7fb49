package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

func openTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := Open(path)
	require.NoError(t, err)
	return idx, path
}

func TestIndexAddQueryReopen(t *testing.T) {
	ctx := context.Background()
	idx, path := openTestIndex(t)

	c, err := idx.CreateCollection(ctx, "docs", port.CollectionOptions{Distance: "cosine"})
	require.NoError(t, err)

	require.NoError(t, c.Add(ctx, []domain.IndexEntry{
		{ID: "0", Vector: []float32{1, 0}, Document: "east"},
		{ID: "1", Vector: []float32{0, 1}, Document: "north"},
		{ID: "2", Vector: []float32{-1, 0}, Document: "west"},
	}))
	require.NoError(t, idx.Close())

	idx, err = Open(path)
	require.NoError(t, err)
	defer idx.Close()

	c, err = idx.GetCollection(ctx, "docs")
	require.NoError(t, err)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := c.Query(ctx, []float32{1, 0.2}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "0", results[0].ID)
	assert.Equal(t, "east", results[0].Document)
	assert.Equal(t, "1", results[1].ID)

	err = c.Add(ctx, []domain.IndexEntry{{ID: "0", Vector: []float32{1, 1}}})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	err = c.Add(ctx, []domain.IndexEntry{{ID: "9", Vector: []float32{1, 1, 1}}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = c.Query(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndexCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	idx, _ := openTestIndex(t)
	defer idx.Close()

	_, err := idx.CreateCollection(ctx, "docs", port.CollectionOptions{})
	require.NoError(t, err)

	_, err = idx.CreateCollection(ctx, "docs", port.CollectionOptions{})
	assert.ErrorIs(t, err, domain.ErrCollectionExists)

	require.NoError(t, idx.DeleteCollection(ctx, "docs"))
	assert.ErrorIs(t, idx.DeleteCollection(ctx, "docs"), domain.ErrCollectionNotFound)

	_, err = idx.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
