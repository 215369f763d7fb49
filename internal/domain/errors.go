package domain

import "errors"

var (
	ErrInvalidChunkParams = errors.New("invalid chunk parameters")
	ErrNoEmbedding        = errors.New("embedding service returned no embeddings")
	ErrDimensionMismatch  = errors.New("vector dimension mismatch")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDuplicateID        = errors.New("duplicate entry id")
	ErrEmptyQuestion      = errors.New("question is empty")
	ErrNoPages            = errors.New("document has no pages")
	ErrUnsupportedSource  = errors.New("unsupported source file")
)
