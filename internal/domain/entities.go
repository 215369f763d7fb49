package domain

import "strings"

// Document is the text extracted from a single source file.
type Document struct {
	Path  string
	Pages []string
}

// Text returns the page texts joined with newline separators.
func (d Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// Chunk is a trimmed window of source text used as a retrieval unit.
type Chunk struct {
	Index  int    `json:"index"`  // position in the filtered output
	Offset int    `json:"offset"` // rune offset of Text within the source
	Text   string `json:"text"`
}

// IndexEntry is a single (id, vector, document) triple stored in a collection.
type IndexEntry struct {
	ID       string
	Vector   []float32
	Document string
}

// QueryResult is one nearest-neighbor hit. Lower distance is closer.
type QueryResult struct {
	ID       string  `json:"id"`
	Document string  `json:"document"`
	Distance float64 `json:"distance"`
}

// Answer bundles a generated response with the material it was grounded on.
type Answer struct {
	Question string        `json:"question"`
	Prompt   string        `json:"prompt"`
	Response string        `json:"response"`
	Results  []QueryResult `json:"results"`
}

// IDs returns the result IDs in order.
func IDs(results []QueryResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

// Distances returns the result distances in order.
func Distances(results []QueryResult) []float64 {
	d := make([]float64, len(results))
	for i, r := range results {
		d[i] = r.Distance
	}
	return d
}
