package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"pdfrag/internal/adapter/similarity"
	"pdfrag/internal/domain"
	"pdfrag/internal/port"
)

// Index is a vector index stored in a SQLite file. Embeddings are kept as
// JSON text and ranked in Go.
type Index struct {
	conn *sql.DB
}

func Open(path string) (*Index, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	idx := &Index{
		conn: conn,
	}

	if err := idx.setupTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to setup database tables: %w", err)
	}

	return idx, nil
}

func (idx *Index) Close() error {
	return idx.conn.Close()
}

func (idx *Index) setupTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			distance TEXT NOT NULL,
			dimension INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			entry_id TEXT NOT NULL,
			embedding TEXT NOT NULL,
			document TEXT NOT NULL,
			FOREIGN KEY (collection) REFERENCES collections (name),
			UNIQUE(collection, entry_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_collection ON entries(collection)`,
	}

	for _, query := range queries {
		if _, err := idx.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	return nil
}

func (idx *Index) CreateCollection(ctx context.Context, name string, opts port.CollectionOptions) (port.Collection, error) {
	dist, err := similarity.Parse(opts.Distance)
	if err != nil {
		return nil, err
	}
	distance := opts.Distance
	if distance == "" {
		distance = similarity.L2
	}

	_, err = idx.conn.ExecContext(ctx,
		`INSERT INTO collections (name, distance, dimension) VALUES (?, ?, ?)`,
		name, distance, opts.Dimension)
	if err != nil {
		if isConstraintError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionExists, name)
		}
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &collection{
		conn:      idx.conn,
		name:      name,
		dimension: opts.Dimension,
		dist:      dist,
	}, nil
}

func (idx *Index) GetCollection(ctx context.Context, name string) (port.Collection, error) {
	var distance string
	var dimension int
	err := idx.conn.QueryRowContext(ctx,
		`SELECT distance, dimension FROM collections WHERE name = ?`, name).Scan(&distance, &dimension)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	dist, err := similarity.Parse(distance)
	if err != nil {
		return nil, err
	}

	return &collection{
		conn:      idx.conn,
		name:      name,
		dimension: dimension,
		dist:      dist,
	}, nil
}

func (idx *Index) DeleteCollection(ctx context.Context, name string) error {
	tx, err := idx.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type collection struct {
	conn      *sql.DB
	name      string
	dimension int
	dist      similarity.DistanceFunc
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) Add(ctx context.Context, entries []domain.IndexEntry) error {
	dimension := c.dimension
	for _, e := range entries {
		if dimension == 0 {
			dimension = len(e.Vector)
		}
		if err := similarity.CheckDimension(dimension, len(e.Vector)); err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}

	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (collection, entry_id, embedding, document) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		embeddingJSON, err := json.Marshal(e.Vector)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, c.name, e.ID, string(embeddingJSON), e.Document); err != nil {
			if isConstraintError(err) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateID, e.ID)
			}
			return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
		}
	}

	if dimension != c.dimension {
		if _, err := tx.ExecContext(ctx,
			`UPDATE collections SET dimension = ? WHERE name = ?`, dimension, c.name); err != nil {
			return fmt.Errorf("failed to update collection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.dimension = dimension
	return nil
}

func (c *collection) Query(ctx context.Context, vector []float32, topK int) ([]domain.QueryResult, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT entry_id, embedding, document FROM entries WHERE collection = ? ORDER BY seq`, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var e domain.IndexEntry
		var embeddingJSON string
		if err := rows.Scan(&e.ID, &embeddingJSON, &e.Document); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &e.Vector); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding for entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(entries) == 0 {
		return nil, nil
	}
	if err := similarity.CheckDimension(c.dimension, len(vector)); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return similarity.TopK(entries, vector, c.dist, topK), nil
}

func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE collection = ?`, c.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func isConstraintError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
