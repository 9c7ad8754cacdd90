package service

import (
	"fmt"

	"github.com/noah-isme/task-recommender/internal/models"
	"github.com/noah-isme/task-recommender/internal/similarity"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
)

// DefaultNeighbors is the number of similar students consulted per query.
const DefaultNeighbors = 2

// CollaborativeModel is a cosine nearest-neighbour index over the student×exam grade matrix.
// Missing grades are stored as similarity.DefaultFill, so students with few exams sit closer
// to the origin and their neighbour choice is biased accordingly.
type CollaborativeModel struct {
	matrix *similarity.Matrix
	index  similarity.Index
}

// BuildCollaborativeModel pivots exam results and fits the index.
// It fails with ErrModelBuild when there are no results or fewer than two students.
func BuildCollaborativeModel(results []models.ExamResult) (*CollaborativeModel, error) {
	if len(results) == 0 {
		return nil, appErrors.Clone(appErrors.ErrModelBuild, "no exam results to build the grade matrix from")
	}

	cells := make([]similarity.Cell, 0, len(results))
	for _, r := range results {
		cells = append(cells, similarity.Cell{Row: r.StudentID, Column: r.ExamID, Value: r.Grade})
	}
	matrix, err := similarity.Pivot(cells, similarity.DefaultFill)
	if err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrModelBuild, "")
	}
	if matrix.RowCount() < 2 {
		return nil, appErrors.Clone(appErrors.ErrModelBuild, fmt.Sprintf("need at least two students with exam results, got %d", matrix.RowCount()))
	}

	return &CollaborativeModel{matrix: matrix, index: similarity.NewBruteForceCosine(matrix)}, nil
}

// Matrix exposes the fitted grade matrix.
func (m *CollaborativeModel) Matrix() *similarity.Matrix {
	return m.matrix
}

// Neighbors returns the IDs of the k students closest to studentID, most similar first.
// k is clamped to the population size minus the student.
func (m *CollaborativeModel) Neighbors(studentID int64, k int) ([]int64, error) {
	row, ok := m.matrix.RowOf(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownStudent, fmt.Sprintf("student %d has no exam results", studentID))
	}
	if max := m.matrix.RowCount() - 1; k > max {
		k = max
	}
	if k <= 0 {
		return []int64{}, nil
	}

	found := m.index.Nearest(m.matrix.Vector(row), k, row)
	ids := make([]int64, 0, len(found))
	for _, n := range found {
		ids = append(ids, m.matrix.RowID(n.Row))
	}
	return ids, nil
}

// Recommend surfaces tasks linked to exams the nearest neighbours took, minus completed tasks.
// Output follows catalog order.
func (m *CollaborativeModel) Recommend(studentID int64, k int, links []models.ExamTaskLink, catalog []models.CatalogTask, completed map[int64]struct{}) ([]models.Recommendation, error) {
	neighbors, err := m.Neighbors(studentID, k)
	if err != nil {
		return []models.Recommendation{}, err
	}

	exams := make(map[int64]struct{})
	for _, id := range neighbors {
		row, _ := m.matrix.RowOf(id)
		for _, exam := range m.matrix.Observed(row) {
			exams[exam] = struct{}{}
		}
	}

	linked := make(map[int64]struct{})
	for _, l := range links {
		if _, ok := exams[l.ExamID]; ok {
			linked[l.TaskID] = struct{}{}
		}
	}

	recs := make([]models.Recommendation, 0, len(linked))
	for _, task := range catalog {
		if _, ok := linked[task.ID]; !ok {
			continue
		}
		if _, done := completed[task.ID]; done {
			continue
		}
		delete(linked, task.ID)
		recs = append(recs, models.NewRecommendation(task, models.ReasonSimilarStudents, models.SourceCollaborative))
	}
	return recs, nil
}
