package port

import (
	"context"

	"pdfrag/internal/domain"
)

// CollectionOptions configures a new collection.
type CollectionOptions struct {
	Distance  string // "l2", "cosine" or "ip"
	Dimension int    // 0 to take the dimension of the first vector added
}

// VectorIndex holds named collections of embeddings.
type VectorIndex interface {
	// CreateCollection creates an empty collection. It fails with
	// domain.ErrCollectionExists if the name is taken.
	CreateCollection(ctx context.Context, name string, opts CollectionOptions) (Collection, error)

	// GetCollection opens an existing collection.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// DeleteCollection removes a collection and its entries.
	DeleteCollection(ctx context.Context, name string) error

	Close() error
}

// Collection stores (id, vector, document) entries and answers
// nearest-neighbor queries over them.
type Collection interface {
	Name() string

	// Add inserts entries. IDs must be unique within the collection.
	Add(ctx context.Context, entries []domain.IndexEntry) error

	// Query returns up to topK entries ordered by ascending distance.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error)

	Count(ctx context.Context) (int, error)
}
