package service

import (
	"context"

	"github.com/noah-isme/task-recommender/internal/models"
)

// CatalogProvider is the read-only data source behind the recommendation engine.
// A missing student is reported as (nil, nil).
type CatalogProvider interface {
	FindStudent(ctx context.Context, id int64) (*models.Student, error)
	Preferences(ctx context.Context, studentID int64) ([]string, error)
	CompletedTaskIDs(ctx context.Context, studentID int64) (map[int64]struct{}, error)
	TasksWithThemes(ctx context.Context) ([]models.CatalogTask, error)
	ThemeProgress(ctx context.Context, studentID int64) ([]models.ThemeProgress, error)
	Themes(ctx context.Context) (map[int64]string, error)
	ExamResults(ctx context.Context) ([]models.ExamResult, error)
	ExamTaskLinks(ctx context.Context) ([]models.ExamTaskLink, error)
}
