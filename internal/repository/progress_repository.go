package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// ProgressRepository reads per-theme mastery percentages.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs a ProgressRepository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ByStudent returns one row per theme the student has progress on.
func (r *ProgressRepository) ByStudent(ctx context.Context, studentID int64) ([]models.ThemeProgress, error) {
	query := r.db.Rebind(`SELECT student_id, theme_id, progress FROM student_theme_progress WHERE student_id = ? ORDER BY theme_id`)
	var rows []models.ThemeProgress
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("theme progress for student %d: %w", studentID, err)
	}
	return rows, nil
}

// List returns every progress row.
func (r *ProgressRepository) List(ctx context.Context) ([]models.ThemeProgress, error) {
	var rows []models.ThemeProgress
	if err := r.db.SelectContext(ctx, &rows, `SELECT student_id, theme_id, progress FROM student_theme_progress ORDER BY student_id, theme_id`); err != nil {
		return nil, fmt.Errorf("list theme progress: %w", err)
	}
	return rows, nil
}
