package retrieval

import (
	"fmt"
	"sort"
)

// Match is a single nearest-neighbor hit: the ordinal of the stored vector
// and its squared L2 distance from the query. Lower distance means more
// similar.
type Match struct {
	Ordinal  int     `json:"ordinal"`
	Distance float64 `json:"distance"`
}

// FlatIndex is an exact, exhaustive-search vector index over one corpus. It
// is immutable after BuildIndex and safe for concurrent reads; a changed
// corpus gets a new index rather than an in-place update. Suited to corpora
// of at most a few thousand vectors (one website's chunks).
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// BuildIndex builds a FlatIndex from an ordered vector set in one shot. The
// dimension is inferred from the first vector; any vector of a different
// dimension fails the build with ErrDimensionMismatch. Row i of the index
// corresponds to ordinal i in Search results.
func BuildIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return &FlatIndex{}, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vector 0 is empty: %w", ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(v), dim, ErrDimensionMismatch)
		}
	}
	return &FlatIndex{
		dim:     dim,
		vectors: append([][]float32(nil), vectors...),
	}, nil
}

// Len returns the number of indexed vectors.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Dimension returns the vector dimension, or 0 for an empty index.
func (ix *FlatIndex) Dimension() int {
	return ix.dim
}

// Search compares the query against every stored vector and returns the
// min(k, Len) nearest matches by squared L2 distance, ascending, ties broken
// by ordinal. Searching an empty index returns an empty result, not an error.
func (ix *FlatIndex) Search(query []float32, k int) ([]Match, error) {
	if ix.Len() == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query has dimension %d, want %d: %w",
			len(query), ix.dim, ErrDimensionMismatch)
	}

	matches := make([]Match, len(ix.vectors))
	for i, v := range ix.vectors {
		matches[i] = Match{Ordinal: i, Distance: squaredL2(query, v)}
	}
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Distance != matches[b].Distance {
			return matches[a].Distance < matches[b].Distance
		}
		return matches[a].Ordinal < matches[b].Ordinal
	})
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// squaredL2 matches the metric of a flat L2 index: no square root, since only
// the ordering and relative thresholds matter.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
