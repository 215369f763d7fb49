package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// DefaultBatchSize is the number of chunks embedded per request.
const DefaultBatchSize = 16

// ProgressFunc is called after each embedded batch.
type ProgressFunc func(done, total int)

// IndexUseCase extracts, chunks, embeds and stores a document.
type IndexUseCase struct {
	extractor port.Extractor
	chunker   port.Chunker
	embedder  port.Embedder
	index     port.VectorIndex
	batchSize int
	logger    *zap.Logger
}

// NewIndexUseCase creates a new index use case. A batchSize of 1 embeds
// chunks one at a time.
func NewIndexUseCase(
	extractor port.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	index port.VectorIndex,
	batchSize int,
	logger *zap.Logger,
) *IndexUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexUseCase{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
		logger:    logger,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Pages      int
	Chunks     []domain.Chunk
	Embedded   int
	Collection port.Collection
}

// Index extracts the file at path and stores its chunks in a new
// collection.
func (u *IndexUseCase) Index(ctx context.Context, path, collection string, opts port.CollectionOptions, progress ProgressFunc) (*IndexResult, error) {
	doc, err := u.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	u.logger.Info("extracted document",
		zap.String("path", path),
		zap.Int("pages", len(doc.Pages)),
	)

	result, err := u.IndexText(ctx, doc.Text(), collection, opts, progress)
	if err != nil {
		return nil, err
	}
	result.Pages = len(doc.Pages)
	return result, nil
}

// IndexText chunks text and stores the chunks in a new collection.
func (u *IndexUseCase) IndexText(ctx context.Context, text, collection string, opts port.CollectionOptions, progress ProgressFunc) (*IndexResult, error) {
	chunks, err := u.chunker.Chunk(text)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk text: %w", err)
	}
	u.logger.Info("chunked text", zap.Int("chunks", len(chunks)))

	if opts.Dimension == 0 {
		opts.Dimension = u.embedder.Dimension()
	}
	coll, err := u.index.CreateCollection(ctx, collection, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	result := &IndexResult{Chunks: chunks, Collection: coll}

	for start := 0; start < len(chunks); start += u.batchSize {
		end := start + u.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		entries, err := u.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		if err := coll.Add(ctx, entries); err != nil {
			return nil, fmt.Errorf("failed to add chunks %d-%d: %w", start, end-1, err)
		}

		result.Embedded += len(entries)
		u.logger.Debug("embedded batch",
			zap.Int("from", start),
			zap.Int("to", end-1),
			zap.String("model", u.embedder.ModelName()),
		)
		if progress != nil {
			progress(result.Embedded, len(chunks))
		}
	}

	return result, nil
}

func (u *IndexUseCase) embedBatch(ctx context.Context, batch []domain.Chunk) ([]domain.IndexEntry, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunk %d: %w", batch[0].Index, err)
	}
	if len(vectors) < len(batch) {
		return nil, fmt.Errorf("chunk %d: got %d vectors for %d texts: %w",
			batch[0].Index, len(vectors), len(batch), domain.ErrNoEmbedding)
	}

	entries := make([]domain.IndexEntry, len(batch))
	for i, c := range batch {
		if len(vectors[i]) == 0 {
			return nil, fmt.Errorf("chunk %d: %w", c.Index, domain.ErrNoEmbedding)
		}
		entries[i] = domain.IndexEntry{
			ID:       ChunkID(c),
			Vector:   vectors[i],
			Document: c.Text,
		}
	}
	return entries, nil
}

// ChunkID returns the index entry ID of a chunk.
func ChunkID(c domain.Chunk) string {
	return strconv.Itoa(c.Index)
}
