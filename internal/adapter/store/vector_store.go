package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
	"pdfrag/internal/adapter/memstore"
	"pdfrag/internal/domain"
)

// boltCollection writes entries through to bbolt and serves queries from
// an in-memory cache loaded when the collection is opened.
// Uses brute-force search; the cache is the whole collection.
type boltCollection struct {
	mu    sync.Mutex
	db    *bbolt.DB
	name  string
	meta  collectionMeta
	cache *memstore.Collection
}

func (c *boltCollection) Name() string {
	return c.name
}

func (c *boltCollection) Add(ctx context.Context, entries []domain.IndexEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dimension, err := c.cache.Validate(entries)
	if err != nil {
		return err
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries).Bucket([]byte(c.name))
		if b == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, c.name)
		}

		for _, e := range entries {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(storedEntry{
				ID:       e.ID,
				Vector:   e.Vector,
				Document: e.Document,
			})
			if err != nil {
				return err
			}
			if err := b.Put(sequenceKey(seq), data); err != nil {
				return err
			}
		}

		if c.meta.Dimension != dimension {
			meta := c.meta
			meta.Dimension = dimension
			data, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := tx.Bucket(bucketCollections).Put([]byte(c.name), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	c.meta.Dimension = dimension
	c.cache.Load(dimension, entries)
	return nil
}

func (c *boltCollection) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error) {
	return c.cache.Query(ctx, vector, topK)
}

func (c *boltCollection) Count(ctx context.Context) (int, error) {
	return c.cache.Count(ctx)
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
