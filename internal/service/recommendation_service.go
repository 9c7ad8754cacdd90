package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/task-recommender/internal/models"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
)

// Outcome labels for recommendation metrics.
const (
	outcomeOK             = "ok"
	outcomeEmpty          = "empty"
	outcomeUnknownStudent = "unknown_student"
	outcomeCacheHit       = "cache_hit"
)

// RecommendationServiceConfig tunes the engine.
type RecommendationServiceConfig struct {
	ProgressThreshold float64
	Neighbors         int
	CacheTTL          time.Duration
}

// RecommendationService computes content, collaborative and hybrid recommendations from fresh catalog reads.
//
// The only error a caller sees is ErrUnknownStudent (or ErrValidation for a bad mode).
// Failed catalog reads and unbuildable models are logged, counted and replaced by an empty signal.
// When the student lookup itself fails the result is empty. Results built from a degraded read
// are never cached.
type RecommendationService struct {
	catalog CatalogProvider
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     RecommendationServiceConfig
}

// NewRecommendationService wires the engine. cache and metrics may be nil.
func NewRecommendationService(catalog CatalogProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg RecommendationServiceConfig) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProgressThreshold <= 0 || cfg.ProgressThreshold > 100 {
		cfg.ProgressThreshold = DefaultProgressThreshold
	}
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = DefaultNeighbors
	}
	return &RecommendationService{
		catalog: catalog,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Content returns the explained content-based candidate set.
func (s *RecommendationService) Content(ctx context.Context, studentID int64) ([]models.Recommendation, error) {
	return s.Recommend(ctx, studentID, models.ModeContent)
}

// Collaborative returns tasks tied to exams taken by the nearest students.
func (s *RecommendationService) Collaborative(ctx context.Context, studentID int64) ([]models.Recommendation, error) {
	return s.Recommend(ctx, studentID, models.ModeCollaborative)
}

// Hybrid returns content recommendations followed by collaborative ones not already present.
func (s *RecommendationService) Hybrid(ctx context.Context, studentID int64) ([]models.Recommendation, error) {
	return s.Recommend(ctx, studentID, models.ModeHybrid)
}

// Recommend dispatches on mode.
func (s *RecommendationService) Recommend(ctx context.Context, studentID int64, mode models.RecommendationMode) ([]models.Recommendation, error) {
	recs, _, err := s.RecommendCached(ctx, studentID, mode)
	return recs, err
}

// RecommendCached is Recommend that also reports whether the result came from the cache.
func (s *RecommendationService) RecommendCached(ctx context.Context, studentID int64, mode models.RecommendationMode) ([]models.Recommendation, bool, error) {
	switch mode {
	case models.ModeContent, models.ModeCollaborative, models.ModeHybrid:
	default:
		return []models.Recommendation{}, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported mode %q", mode))
	}

	start := time.Now()
	key := RecommendationCacheKey(mode, studentID)
	var cached []models.Recommendation
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		s.metrics.ObserveRecommendation(mode, outcomeCacheHit, time.Since(start))
		return cached, true, nil
	}

	recs, degraded, err := s.compute(ctx, studentID, mode)
	if err != nil {
		s.metrics.ObserveRecommendation(mode, outcomeUnknownStudent, time.Since(start))
		return []models.Recommendation{}, false, err
	}

	outcome := outcomeOK
	if len(recs) == 0 {
		outcome = outcomeEmpty
	}
	s.metrics.ObserveRecommendation(mode, outcome, time.Since(start))
	s.logger.Debug("recommendations computed",
		zap.Int64("student_id", studentID),
		zap.String("mode", string(mode)),
		zap.Int("count", len(recs)),
		zap.Bool("degraded", degraded),
		zap.Duration("took", time.Since(start)),
	)

	// A result built from partial signals must not outlive the outage.
	if degraded {
		return recs, false, nil
	}
	if err := s.cache.Set(ctx, key, recs, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("recommendation cache write skipped", zap.String("key", key), zap.Error(err))
	}
	return recs, false, nil
}

// computation carries one call's state; degraded is set when any catalog read failed.
type computation struct {
	s         *RecommendationService
	studentID int64
	degraded  bool
}

func (s *RecommendationService) compute(ctx context.Context, studentID int64, mode models.RecommendationMode) ([]models.Recommendation, bool, error) {
	c := &computation{s: s, studentID: studentID}

	found, err := c.ensureStudent(ctx)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return []models.Recommendation{}, true, nil
	}

	completed := load(ctx, c, SignalCompleted, map[int64]struct{}{}, func(ctx context.Context) (map[int64]struct{}, error) {
		return s.catalog.CompletedTaskIDs(ctx, studentID)
	})
	catalog := load(ctx, c, SignalCatalog, []models.CatalogTask{}, s.catalog.TasksWithThemes)

	var recs []models.Recommendation
	switch mode {
	case models.ModeContent:
		recs = c.content(ctx, catalog, completed)
	case models.ModeCollaborative:
		recs = c.collaborative(ctx, catalog, completed)
	default:
		content := c.content(ctx, catalog, completed)
		collaborative := c.collaborative(ctx, catalog, completed)
		themes := load(ctx, c, SignalThemes, map[int64]string{}, s.catalog.Themes)
		recs = MergeRecommendations(content, collaborative, themes)
	}
	return recs, c.degraded, nil
}

// ensureStudent reports whether the student is known. ErrUnknownStudent is returned only when
// the catalog positively reports the student as absent; a failed lookup yields (false, nil)
// so the caller answers with an empty result instead of recommending for an unverified id.
func (c *computation) ensureStudent(ctx context.Context) (bool, error) {
	start := time.Now()
	student, err := c.s.catalog.FindStudent(ctx, c.studentID)
	c.s.metrics.ObserveDBQuery(SignalStudent, time.Since(start))
	if err != nil {
		c.degrade(SignalStudent, err)
		return false, nil
	}
	if student == nil {
		return false, appErrors.Clone(appErrors.ErrUnknownStudent, fmt.Sprintf("student %d not found", c.studentID))
	}
	return true, nil
}

func (c *computation) content(ctx context.Context, catalog []models.CatalogTask, completed map[int64]struct{}) []models.Recommendation {
	prefs := load(ctx, c, SignalPreferences, []string{}, func(ctx context.Context) ([]string, error) {
		return c.s.catalog.Preferences(ctx, c.studentID)
	})
	progress := load(ctx, c, SignalProgress, []models.ThemeProgress{}, func(ctx context.Context) ([]models.ThemeProgress, error) {
		return c.s.catalog.ThemeProgress(ctx, c.studentID)
	})

	return ScoreContent(ContentInput{
		Catalog:     catalog,
		Completed:   completed,
		Preferences: prefs,
		Progress:    progress,
		Threshold:   c.s.cfg.ProgressThreshold,
	})
}

func (c *computation) collaborative(ctx context.Context, catalog []models.CatalogTask, completed map[int64]struct{}) []models.Recommendation {
	results := load(ctx, c, SignalExamResults, []models.ExamResult{}, c.s.catalog.ExamResults)

	model, err := BuildCollaborativeModel(results)
	if err != nil {
		c.s.metrics.RecordModelBuildFailure()
		c.s.logger.Warn("collaborative model unavailable, skipping signal",
			zap.Int64("student_id", c.studentID),
			zap.Int("exam_results", len(results)),
			zap.Error(err),
		)
		return []models.Recommendation{}
	}

	links := load(ctx, c, SignalExamTaskLinks, []models.ExamTaskLink{}, c.s.catalog.ExamTaskLinks)
	recs, err := model.Recommend(c.studentID, c.s.cfg.Neighbors, links, catalog, completed)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnknownStudent) {
			c.s.logger.Debug("student has no exam history", zap.Int64("student_id", c.studentID))
		} else {
			c.s.logger.Warn("collaborative recommend failed", zap.Int64("student_id", c.studentID), zap.Error(err))
		}
		return []models.Recommendation{}
	}
	return recs
}

func (c *computation) degrade(signal string, err error) {
	c.degraded = true
	c.s.metrics.RecordDegradedSignal(signal)
	c.s.logger.Warn("catalog read failed, continuing without signal",
		zap.String("signal", signal),
		zap.Int64("student_id", c.studentID),
		zap.Error(appErrors.WrapKind(err, appErrors.ErrDataAccess, "")),
	)
}

// load times a catalog read and swaps a failure for fallback.
func load[T any](ctx context.Context, c *computation, signal string, fallback T, read func(context.Context) (T, error)) T {
	start := time.Now()
	value, err := read(ctx)
	c.s.metrics.ObserveDBQuery(signal, time.Since(start))
	if err != nil {
		c.degrade(signal, err)
		return fallback
	}
	return value
}
