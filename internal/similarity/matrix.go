// Package similarity holds the dense grade matrix and the nearest-neighbour
// index the collaborative model runs on.
package similarity

import (
	"fmt"
	"sort"
)

// DefaultFill is the value stored for a (row, column) pair that has no observation.
// A missing grade therefore counts as a zero grade, pulling sparse rows toward the origin.
const DefaultFill = 0.0

// Cell is one sparse observation keyed by row and column identifiers.
type Cell struct {
	Row    int64
	Column int64
	Value  float64
}

// Matrix is a dense row-major matrix pivoted from sparse cells.
// Rows and columns are sorted by identifier.
type Matrix struct {
	Fill float64

	rows     []int64
	columns  []int64
	rowIndex map[int64]int
	colIndex map[int64]int
	values   [][]float64
	observed [][]bool
}

// Pivot builds a dense matrix from cells. Repeated (row, column) observations are averaged;
// unobserved cells hold fill.
func Pivot(cells []Cell, fill float64) (*Matrix, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("pivot: no cells")
	}

	rowSet := make(map[int64]struct{})
	colSet := make(map[int64]struct{})
	for _, c := range cells {
		rowSet[c.Row] = struct{}{}
		colSet[c.Column] = struct{}{}
	}

	m := &Matrix{
		Fill:     fill,
		rows:     sortedKeys(rowSet),
		columns:  sortedKeys(colSet),
		rowIndex: make(map[int64]int, len(rowSet)),
		colIndex: make(map[int64]int, len(colSet)),
	}
	for i, id := range m.rows {
		m.rowIndex[id] = i
	}
	for j, id := range m.columns {
		m.colIndex[id] = j
	}

	sums := make([][]float64, len(m.rows))
	counts := make([][]int, len(m.rows))
	for i := range m.rows {
		sums[i] = make([]float64, len(m.columns))
		counts[i] = make([]int, len(m.columns))
	}
	for _, c := range cells {
		i, j := m.rowIndex[c.Row], m.colIndex[c.Column]
		sums[i][j] += c.Value
		counts[i][j]++
	}

	m.values = make([][]float64, len(m.rows))
	m.observed = make([][]bool, len(m.rows))
	for i := range m.rows {
		m.values[i] = make([]float64, len(m.columns))
		m.observed[i] = make([]bool, len(m.columns))
		for j := range m.columns {
			if counts[i][j] == 0 {
				m.values[i][j] = fill
				continue
			}
			m.values[i][j] = sums[i][j] / float64(counts[i][j])
			m.observed[i][j] = true
		}
	}

	return m, nil
}

// Rows returns the row identifiers in matrix order.
func (m *Matrix) Rows() []int64 {
	return append([]int64(nil), m.rows...)
}

// Columns returns the column identifiers in matrix order.
func (m *Matrix) Columns() []int64 {
	return append([]int64(nil), m.columns...)
}

// RowCount is the number of rows.
func (m *Matrix) RowCount() int {
	return len(m.rows)
}

// RowOf returns the index of the row with the given identifier.
func (m *Matrix) RowOf(id int64) (int, bool) {
	i, ok := m.rowIndex[id]
	return i, ok
}

// RowID returns the identifier of row i.
func (m *Matrix) RowID(i int) int64 {
	return m.rows[i]
}

// Vector returns row i. The slice is shared; callers must not modify it.
func (m *Matrix) Vector(i int) []float64 {
	return m.values[i]
}

// At returns the cell value, which is Fill when unobserved.
func (m *Matrix) At(row, column int64) (float64, bool) {
	i, ok := m.rowIndex[row]
	if !ok {
		return 0, false
	}
	j, ok := m.colIndex[column]
	if !ok {
		return 0, false
	}
	return m.values[i][j], true
}

// Observed reports the column identifiers that row i actually has observations for.
func (m *Matrix) Observed(i int) []int64 {
	out := make([]int64, 0, len(m.columns))
	for j, ok := range m.observed[i] {
		if ok {
			out = append(out, m.columns[j])
		}
	}
	return out
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
