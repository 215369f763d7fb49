package memstore

import (
	"context"
	"fmt"
	"sync"

	"pdfrag/internal/adapter/similarity"
	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// MemoryIndex is an in-process vector index. Its contents live for the
// lifetime of the value.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		collections: make(map[string]*Collection),
	}
}

func (s *MemoryIndex) CreateCollection(ctx context.Context, name string, opts port.CollectionOptions) (port.Collection, error) {
	dist, err := similarity.Parse(opts.Distance)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionExists, name)
	}
	c := NewCollection(name, opts.Dimension, dist)
	s.collections[name] = c
	return c, nil
}

func (s *MemoryIndex) GetCollection(ctx context.Context, name string) (port.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	return c, nil
}

func (s *MemoryIndex) DeleteCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	delete(s.collections, name)
	return nil
}

func (s *MemoryIndex) Close() error {
	return nil
}

// Collection is a brute-force collection of entries kept in insertion
// order. The bolt store reuses it as its in-memory cache.
type Collection struct {
	mu        sync.RWMutex
	name      string
	dimension int
	dist      similarity.DistanceFunc
	entries   []domain.IndexEntry
	ids       map[string]struct{}
}

// NewCollection returns an empty collection. dimension 0 is fixed by the
// first vector added; a nil dist selects squared L2.
func NewCollection(name string, dimension int, dist similarity.DistanceFunc) *Collection {
	if dist == nil {
		dist = similarity.SquaredL2
	}
	return &Collection{
		name:      name,
		dimension: dimension,
		dist:      dist,
		ids:       make(map[string]struct{}),
	}
}

func (c *Collection) Name() string {
	return c.name
}

// Dimension returns the vector dimension, or 0 before the first Add.
func (c *Collection) Dimension() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimension
}

func (c *Collection) Add(ctx context.Context, entries []domain.IndexEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dimension, err := c.validateLocked(entries)
	if err != nil {
		return err
	}
	c.dimension = dimension
	c.appendLocked(entries)
	return nil
}

// Validate checks entries against the collection without modifying it and
// returns the dimension the collection will have once they are added.
func (c *Collection) Validate(entries []domain.IndexEntry) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validateLocked(entries)
}

func (c *Collection) validateLocked(entries []domain.IndexEntry) (int, error) {
	dimension := c.dimension
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if dimension == 0 {
			dimension = len(e.Vector)
		}
		if err := similarity.CheckDimension(dimension, len(e.Vector)); err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		if _, ok := c.ids[e.ID]; ok {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateID, e.ID)
		}
		if _, ok := seen[e.ID]; ok {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return dimension, nil
}

// Load appends already-validated entries, e.g. when restoring from disk.
func (c *Collection) Load(dimension int, entries []domain.IndexEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dimension == 0 {
		c.dimension = dimension
	}
	c.appendLocked(entries)
}

func (c *Collection) appendLocked(entries []domain.IndexEntry) {
	for _, e := range entries {
		c.entries = append(c.entries, e)
		c.ids[e.ID] = struct{}{}
	}
}

func (c *Collection) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.entries) == 0 {
		return nil, nil
	}
	if err := similarity.CheckDimension(c.dimension, len(vector)); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return similarity.TopK(c.entries, vector, c.dist, topK), nil
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}
