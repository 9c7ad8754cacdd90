package similarity

import (
	"math"
	"sort"
)

// Neighbor is a row returned by a nearest-neighbour query.
type Neighbor struct {
	Row      int
	Distance float64
}

// Index answers k-nearest queries under cosine distance.
type Index interface {
	// Nearest returns up to k rows closest to vector ordered by ascending distance.
	// The row at position exclude is skipped; pass -1 to keep every row.
	Nearest(vector []float64, k int, exclude int) []Neighbor
}

// BruteForceCosine scans every row on each query. Fine for class-sized populations.
type BruteForceCosine struct {
	vectors [][]float64
	norms   []float64
}

// NewBruteForceCosine fits the index over the rows of m.
func NewBruteForceCosine(m *Matrix) *BruteForceCosine {
	idx := &BruteForceCosine{
		vectors: make([][]float64, m.RowCount()),
		norms:   make([]float64, m.RowCount()),
	}
	for i := 0; i < m.RowCount(); i++ {
		idx.vectors[i] = m.Vector(i)
		idx.norms[i] = norm(idx.vectors[i])
	}
	return idx
}

// Nearest implements Index. Ties on distance keep row order.
func (b *BruteForceCosine) Nearest(vector []float64, k int, exclude int) []Neighbor {
	if k <= 0 {
		return nil
	}
	qNorm := norm(vector)

	neighbors := make([]Neighbor, 0, len(b.vectors))
	for i, v := range b.vectors {
		if i == exclude {
			continue
		}
		neighbors = append(neighbors, Neighbor{Row: i, Distance: 1 - cosine(vector, qNorm, v, b.norms[i])})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// CosineDistance is 1 - cosine similarity; a zero vector is at distance 1 from everything.
func CosineDistance(a, b []float64) float64 {
	return 1 - cosine(a, norm(a), b, norm(b))
}

func cosine(a []float64, normA float64, b []float64, normB float64) float64 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	sim := dot / (normA * normB)
	// Clamp rounding noise so identical directions land exactly on distance 0.
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
