package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradeMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := Pivot([]Cell{
		{Row: 5, Column: 1, Value: 3},
		{Row: 6, Column: 1, Value: 3},
		{Row: 7, Column: 2, Value: 5},
	}, DefaultFill)
	require.NoError(t, err)
	return m
}

func TestNearestOrdersBySimilarity(t *testing.T) {
	m := gradeMatrix(t)
	idx := NewBruteForceCosine(m)
	self, _ := m.RowOf(5)

	got := idx.Nearest(m.Vector(self), 2, self)

	require.Len(t, got, 2)
	assert.Equal(t, int64(6), m.RowID(got[0].Row))
	assert.InDelta(t, 0.0, got[0].Distance, 1e-12)
	assert.Equal(t, int64(7), m.RowID(got[1].Row))
	assert.InDelta(t, 1.0, got[1].Distance, 1e-12)
}

func TestNearestExcludesQueriedRow(t *testing.T) {
	m := gradeMatrix(t)
	idx := NewBruteForceCosine(m)

	for i := 0; i < m.RowCount(); i++ {
		for k := 1; k <= m.RowCount(); k++ {
			for _, n := range idx.Nearest(m.Vector(i), k, i) {
				assert.NotEqual(t, i, n.Row)
			}
		}
	}
}

func TestNearestWithoutExclusionFindsSelfFirst(t *testing.T) {
	m := gradeMatrix(t)
	idx := NewBruteForceCosine(m)

	got := idx.Nearest(m.Vector(2), 1, -1)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Row)
}

func TestNearestZeroK(t *testing.T) {
	m := gradeMatrix(t)
	assert.Empty(t, NewBruteForceCosine(m).Nearest(m.Vector(0), 0, 0))
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float64{1, 2}, []float64{2, 4}), 1e-12)
	assert.InDelta(t, 1.0, CosineDistance([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 1.0, CosineDistance([]float64{0, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 2.0, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-12)
}
