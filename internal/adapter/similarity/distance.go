package similarity

import (
	"fmt"
	"math"
	"sort"

	"pdfrag/internal/domain"
)

// Metric names accepted by Parse.
const (
	L2     = "l2"
	Cosine = "cosine"
	IP     = "ip"
)

// DistanceFunc returns a distance between two vectors of equal length.
// Smaller is closer.
type DistanceFunc func(a, b []float32) float64

// Parse returns the distance function for a metric name. An empty name
// selects L2.
func Parse(name string) (DistanceFunc, error) {
	switch name {
	case "", L2:
		return SquaredL2, nil
	case Cosine:
		return CosineDistance, nil
	case IP:
		return InnerProductDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance metric: %s", name)
	}
}

// SquaredL2 is the squared Euclidean distance.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// CosineDistance is 1 minus the cosine similarity. Zero vectors are at
// distance 1 from everything.
func CosineDistance(a, b []float32) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}

// InnerProductDistance is 1 minus the dot product.
func InnerProductDistance(a, b []float32) float64 {
	var dotProduct float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
	}
	return 1 - dotProduct
}

// TopK ranks entries by ascending distance to query and returns at most k
// results. Entries at equal distance keep their insertion order.
func TopK(entries []domain.IndexEntry, query []float32, dist DistanceFunc, k int) []domain.QueryResult {
	if k <= 0 || len(entries) == 0 {
		return nil
	}

	results := make([]domain.QueryResult, len(entries))
	for i, e := range entries {
		results[i] = domain.QueryResult{
			ID:       e.ID,
			Document: e.Document,
			Distance: dist(query, e.Vector),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// CheckDimension reports a domain.ErrDimensionMismatch when got differs
// from a fixed want.
func CheckDimension(want, got int) error {
	if want != 0 && want != got {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, want, got)
	}
	return nil
}
