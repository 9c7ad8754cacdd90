package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// PreferenceRepository reads questionnaire answers from the forms table.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs a PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ByStudent returns the student's declared interests in the order they were written.
func (r *PreferenceRepository) ByStudent(ctx context.Context, studentID int64) ([]string, error) {
	query := r.db.Rebind(`SELECT preferences FROM forms WHERE student_id = ? LIMIT 1`)
	var raw sql.NullString
	if err := r.db.GetContext(ctx, &raw, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("preferences for student %d: %w", studentID, err)
	}
	if !raw.Valid {
		return []string{}, nil
	}
	return models.ParsePreferences(raw.String), nil
}

// List returns all forms.
func (r *PreferenceRepository) List(ctx context.Context) ([]models.StudentForm, error) {
	var forms []models.StudentForm
	if err := r.db.SelectContext(ctx, &forms, `SELECT student_id, COALESCE(preferences, '') AS preferences FROM forms ORDER BY student_id`); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}
