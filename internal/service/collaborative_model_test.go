package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/task-recommender/internal/models"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
)

// Students 5 and 6 share a direction, 7 is orthogonal. Student 8 only sat exam 103.
func scenarioExamResults() []models.ExamResult {
	return []models.ExamResult{
		{StudentID: 5, ExamID: 101, Grade: 3},
		{StudentID: 5, ExamID: 102, Grade: 0},
		{StudentID: 6, ExamID: 101, Grade: 3},
		{StudentID: 6, ExamID: 102, Grade: 0},
		{StudentID: 7, ExamID: 101, Grade: 0},
		{StudentID: 7, ExamID: 102, Grade: 5},
	}
}

func TestCollaborativeNeighborsOrderedBySimilarity(t *testing.T) {
	model, err := BuildCollaborativeModel(scenarioExamResults())
	require.NoError(t, err)

	ids, err := model.Neighbors(5, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, ids)

	ids, err = model.Neighbors(5, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 7}, ids)
}

func TestCollaborativeNeighborsNeverIncludeSelf(t *testing.T) {
	model, err := BuildCollaborativeModel(scenarioExamResults())
	require.NoError(t, err)

	for _, student := range []int64{5, 6, 7} {
		for k := 1; k <= 5; k++ {
			ids, err := model.Neighbors(student, k)
			require.NoError(t, err)
			assert.NotContains(t, ids, student, "student %d k=%d", student, k)
			assert.LessOrEqual(t, len(ids), 2)
		}
	}
}

func TestBuildCollaborativeModelSingleStudent(t *testing.T) {
	model, err := BuildCollaborativeModel([]models.ExamResult{{StudentID: 5, ExamID: 1, Grade: 4}})

	assert.Nil(t, model)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrModelBuild))
}

func TestBuildCollaborativeModelNoResults(t *testing.T) {
	_, err := BuildCollaborativeModel(nil)
	assert.True(t, errors.Is(err, appErrors.ErrModelBuild))
}

func TestCollaborativeRecommendUsesNeighbourExams(t *testing.T) {
	results := append(scenarioExamResults(), models.ExamResult{StudentID: 7, ExamID: 103, Grade: 4})
	model, err := BuildCollaborativeModel(results)
	require.NoError(t, err)

	links := []models.ExamTaskLink{
		{ExamID: 101, TaskID: 3},
		{ExamID: 102, TaskID: 4},
		{ExamID: 103, TaskID: 5},
	}
	catalog := []models.CatalogTask{
		catalogTask(3, 10, "Algebra", "a"),
		catalogTask(4, 20, "Geometry", "b"),
		catalogTask(5, 11, "Number theory", "c"),
	}

	recs, err := model.Recommend(5, 1, links, catalog, map[int64]struct{}{4: {}})
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, int64(3), recs[0].ID)
	assert.Equal(t, "Algebra", recs[0].ThemeName)
	assert.Equal(t, models.ReasonSimilarStudents, recs[0].Explanation)
	assert.Equal(t, models.SourceCollaborative, recs[0].Source)
}

func TestCollaborativeRecommendUnknownStudent(t *testing.T) {
	model, err := BuildCollaborativeModel(scenarioExamResults())
	require.NoError(t, err)

	recs, err := model.Recommend(42, 2, nil, nil, nil)
	assert.Empty(t, recs)
	assert.True(t, errors.Is(err, appErrors.ErrUnknownStudent))
}

func TestCollaborativeRecommendDeduplicatesTasks(t *testing.T) {
	model, err := BuildCollaborativeModel(scenarioExamResults())
	require.NoError(t, err)

	links := []models.ExamTaskLink{{ExamID: 101, TaskID: 3}, {ExamID: 102, TaskID: 3}}
	catalog := []models.CatalogTask{catalogTask(3, 10, "Algebra", "a")}

	recs, err := model.Recommend(5, 2, links, catalog, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
