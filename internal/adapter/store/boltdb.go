package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"pdfrag/internal/adapter/memstore"
	"pdfrag/internal/adapter/similarity"
	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

var (
	bucketMeta        = []byte("meta")
	bucketCollections = []byte("collections")
	bucketEntries     = []byte("entries")
)

// BoltIndex is a vector index persisted in a single bbolt file.
// Each collection is a nested bucket under "entries" keyed by insertion
// sequence, so reloads preserve insertion order.
type BoltIndex struct {
	db *bbolt.DB
}

type collectionMeta struct {
	Distance  string `json:"distance"`
	Dimension int    `json:"dimension"`
}

type storedEntry struct {
	ID       string    `json:"id"`
	Vector   []float32 `json:"v"`
	Document string    `json:"d"`
}

func NewBoltIndex(path string) (*BoltIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketCollections, bucketEntries} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltIndex{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltIndex) DB() *bbolt.DB {
	return s.db
}

func (s *BoltIndex) CreateCollection(ctx context.Context, name string, opts port.CollectionOptions) (port.Collection, error) {
	dist, err := similarity.Parse(opts.Distance)
	if err != nil {
		return nil, err
	}
	meta := collectionMeta{Distance: opts.Distance, Dimension: opts.Dimension}
	if meta.Distance == "" {
		meta.Distance = similarity.L2
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		collections := tx.Bucket(bucketCollections)
		if collections.Get([]byte(name)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionExists, name)
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := collections.Put([]byte(name), data); err != nil {
			return err
		}
		_, err = tx.Bucket(bucketEntries).CreateBucket([]byte(name))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &boltCollection{
		db:    s.db,
		name:  name,
		meta:  meta,
		cache: memstore.NewCollection(name, meta.Dimension, dist),
	}, nil
}

func (s *BoltIndex) GetCollection(ctx context.Context, name string) (port.Collection, error) {
	var meta collectionMeta
	var entries []domain.IndexEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCollections).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("failed to decode collection %s: %w", name, err)
		}

		b := tx.Bucket(bucketEntries).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedEntry
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("failed to decode entry in %s: %w", name, err)
			}
			entries = append(entries, domain.IndexEntry{
				ID:       stored.ID,
				Vector:   stored.Vector,
				Document: stored.Document,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	dist, err := similarity.Parse(meta.Distance)
	if err != nil {
		return nil, err
	}

	cache := memstore.NewCollection(name, meta.Dimension, dist)
	cache.Load(meta.Dimension, entries)

	return &boltCollection{
		db:    s.db,
		name:  name,
		meta:  meta,
		cache: cache,
	}, nil
}

func (s *BoltIndex) DeleteCollection(ctx context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		collections := tx.Bucket(bucketCollections)
		if collections.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
		}
		if err := collections.Delete([]byte(name)); err != nil {
			return err
		}
		entries := tx.Bucket(bucketEntries)
		if entries.Bucket([]byte(name)) == nil {
			return nil
		}
		return entries.DeleteBucket([]byte(name))
	})
}

// Collections lists collection names in key order.
func (s *BoltIndex) Collections() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCollections).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *BoltIndex) Close() error {
	return s.db.Close()
}
