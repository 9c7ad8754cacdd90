package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/task-recommender/internal/models"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
)

type fakeCatalog struct {
	students    map[int64]bool
	preferences map[int64][]string
	completed   map[int64]map[int64]struct{}
	tasks       []models.CatalogTask
	progress    map[int64][]models.ThemeProgress
	themes      map[int64]string
	results     []models.ExamResult
	links       []models.ExamTaskLink

	studentErr  error
	completeErr error
	catalogErr  error
	resultsErr  error

	calls int
}

func (f *fakeCatalog) FindStudent(_ context.Context, id int64) (*models.Student, error) {
	f.calls++
	if f.studentErr != nil {
		return nil, f.studentErr
	}
	if !f.students[id] {
		return nil, nil
	}
	return &models.Student{ID: id}, nil
}

func (f *fakeCatalog) Preferences(_ context.Context, id int64) ([]string, error) {
	return f.preferences[id], nil
}

func (f *fakeCatalog) CompletedTaskIDs(_ context.Context, id int64) (map[int64]struct{}, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.completed[id], nil
}

func (f *fakeCatalog) TasksWithThemes(context.Context) ([]models.CatalogTask, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.tasks, nil
}

func (f *fakeCatalog) ThemeProgress(_ context.Context, id int64) ([]models.ThemeProgress, error) {
	return f.progress[id], nil
}

func (f *fakeCatalog) Themes(context.Context) (map[int64]string, error) {
	return f.themes, nil
}

func (f *fakeCatalog) ExamResults(context.Context) ([]models.ExamResult, error) {
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results, nil
}

func (f *fakeCatalog) ExamTaskLinks(context.Context) ([]models.ExamTaskLink, error) {
	return f.links, nil
}

func newScenarioCatalog() *fakeCatalog {
	in := scenarioContentInput()
	return &fakeCatalog{
		students:    map[int64]bool{5: true, 6: true, 7: true, 9: true},
		preferences: map[int64][]string{5: in.Preferences},
		completed:   map[int64]map[int64]struct{}{5: in.Completed},
		tasks:       in.Catalog,
		progress:    map[int64][]models.ThemeProgress{5: in.Progress},
		themes:      map[int64]string{10: "Algebra basics", 11: "Number theory", 20: "Geometry"},
		results:     scenarioExamResults(),
		links: []models.ExamTaskLink{
			{ExamID: 101, TaskID: 1},
			{ExamID: 101, TaskID: 3},
			{ExamID: 102, TaskID: 4},
		},
	}
}

func newTestRecommendationService(catalog CatalogProvider, metrics *MetricsService) *RecommendationService {
	return NewRecommendationService(catalog, nil, metrics, zap.NewNop(), RecommendationServiceConfig{})
}

func ids(recs []models.Recommendation) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestRecommendationServiceContent(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	recs, err := svc.Content(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, ids(recs))
	assert.Equal(t, "interest match, low mastery", recs[0].Explanation)
}

func TestRecommendationServiceCollaborative(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	recs, err := svc.Collaborative(context.Background(), 5)
	require.NoError(t, err)
	// neighbours 6 and 7 sat exams 101 and 102; task 1 is already done.
	assert.Equal(t, []int64{3, 4}, ids(recs))
	for _, r := range recs {
		assert.Equal(t, models.SourceCollaborative, r.Source)
	}
}

func TestRecommendationServiceHybridContentFirst(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	recs, err := svc.Hybrid(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, ids(recs))
	for _, r := range recs {
		assert.Equal(t, models.SourceContent, r.Source)
	}
}

func TestRecommendationServiceUnknownStudent(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	for _, mode := range []models.RecommendationMode{models.ModeContent, models.ModeCollaborative, models.ModeHybrid} {
		recs, err := svc.Recommend(context.Background(), 404, mode)
		require.Error(t, err, mode)
		assert.True(t, errors.Is(err, appErrors.ErrUnknownStudent), mode)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	}
}

func TestRecommendationServiceRejectsUnknownMode(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	_, err := svc.Recommend(context.Background(), 5, models.RecommendationMode("popular"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestRecommendationServiceNeverReturnsCompletedTasks(t *testing.T) {
	catalog := newScenarioCatalog()
	catalog.completed[6] = map[int64]struct{}{3: {}, 4: {}}
	svc := newTestRecommendationService(catalog, nil)

	for _, student := range []int64{5, 6, 7} {
		for _, mode := range []models.RecommendationMode{models.ModeContent, models.ModeCollaborative, models.ModeHybrid} {
			recs, err := svc.Recommend(context.Background(), student, mode)
			require.NoError(t, err)
			for _, r := range recs {
				_, done := catalog.completed[student][r.ID]
				assert.False(t, done, "student %d mode %s task %d", student, mode, r.ID)
			}
		}
	}
}

func TestRecommendationServiceIsIdempotent(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	for _, mode := range []models.RecommendationMode{models.ModeContent, models.ModeCollaborative, models.ModeHybrid} {
		first, err := svc.Recommend(context.Background(), 5, mode)
		require.NoError(t, err)
		second, err := svc.Recommend(context.Background(), 5, mode)
		require.NoError(t, err)
		assert.Equal(t, first, second, mode)
	}
}

func TestRecommendationServiceModelBuildFailureFallsBackToContent(t *testing.T) {
	catalog := newScenarioCatalog()
	catalog.results = []models.ExamResult{{StudentID: 5, ExamID: 101, Grade: 3}}
	metrics := NewMetricsService()
	svc := newTestRecommendationService(catalog, metrics)

	collab, err := svc.Collaborative(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, collab)

	hybrid, err := svc.Hybrid(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, ids(hybrid))

	assert.Equal(t, uint64(2), metrics.Snapshot().ModelBuildFailures)
}

func TestRecommendationServiceStudentWithoutExams(t *testing.T) {
	svc := newTestRecommendationService(newScenarioCatalog(), nil)

	recs, err := svc.Collaborative(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendationServiceDegradesOnDataAccessFailure(t *testing.T) {
	catalog := newScenarioCatalog()
	catalog.completeErr = errors.New("connection reset")
	catalog.resultsErr = errors.New("connection reset")
	metrics := NewMetricsService()
	svc := newTestRecommendationService(catalog, metrics)

	recs, err := svc.Hybrid(context.Background(), 5)
	require.NoError(t, err)
	// without the completed set every catalog task is a candidate.
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(recs))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.degradedSignals.WithLabelValues(SignalCompleted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.degradedSignals.WithLabelValues(SignalExamResults)))
}

func TestRecommendationServiceStudentLookupFailureReturnsEmpty(t *testing.T) {
	catalog := newScenarioCatalog()
	catalog.studentErr = errors.New("students table unavailable")
	metrics := NewMetricsService()
	repo := newMemoryCache()
	cache := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	svc := NewRecommendationService(catalog, cache, metrics, zap.NewNop(), RecommendationServiceConfig{})

	for _, mode := range []models.RecommendationMode{models.ModeContent, models.ModeCollaborative, models.ModeHybrid} {
		recs, err := svc.Recommend(context.Background(), 999999, mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, recs, mode)
		assert.Empty(t, recs, mode)
	}

	assert.Empty(t, repo.items)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.degradedSignals.WithLabelValues(SignalStudent)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.recommendations.WithLabelValues(string(models.ModeHybrid), outcomeEmpty)))
}

func TestRecommendationServiceDoesNotCacheDegradedResult(t *testing.T) {
	catalog := newScenarioCatalog()
	catalog.completeErr = errors.New("lesson tables locked")
	repo := newMemoryCache()
	cache := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	svc := NewRecommendationService(catalog, cache, nil, zap.NewNop(), RecommendationServiceConfig{})

	recs, hit, err := svc.RecommendCached(context.Background(), 5, models.ModeContent)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Contains(t, ids(recs), int64(1))
	assert.Empty(t, repo.items)

	catalog.completeErr = nil
	recs, hit, err = svc.RecommendCached(context.Background(), 5, models.ModeContent)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []int64{3, 4, 5}, ids(recs))
	assert.Len(t, repo.items, 1)
}

func TestRecommendationServiceServesFromCache(t *testing.T) {
	catalog := newScenarioCatalog()
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCache(), metrics, time.Minute, zap.NewNop(), true)
	svc := NewRecommendationService(catalog, cache, metrics, zap.NewNop(), RecommendationServiceConfig{})

	first, hit, err := svc.RecommendCached(context.Background(), 5, models.ModeContent)
	require.NoError(t, err)
	assert.False(t, hit)
	callsAfterFirst := catalog.calls

	second, hit, err := svc.RecommendCached(context.Background(), 5, models.ModeContent)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, catalog.calls)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.recommendations.WithLabelValues(string(models.ModeContent), outcomeCacheHit)))
}

func TestRecommendationServiceDoesNotCacheUnknownStudent(t *testing.T) {
	repo := newMemoryCache()
	cache := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	svc := NewRecommendationService(newScenarioCatalog(), cache, nil, zap.NewNop(), RecommendationServiceConfig{})

	_, err := svc.Content(context.Background(), 404)
	require.Error(t, err)
	assert.Empty(t, repo.items)
}

func TestNewRecommendationServiceDefaults(t *testing.T) {
	svc := NewRecommendationService(newScenarioCatalog(), nil, nil, nil, RecommendationServiceConfig{ProgressThreshold: 150})

	assert.Equal(t, DefaultProgressThreshold, svc.cfg.ProgressThreshold)
	assert.Equal(t, DefaultNeighbors, svc.cfg.Neighbors)
	assert.NotNil(t, svc.logger)
}
