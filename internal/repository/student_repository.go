package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// StudentRepository reads student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student by ID. A missing student yields (nil, nil).
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := r.db.Rebind(`SELECT id, full_name FROM students WHERE id = ?`)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find student %d: %w", id, err)
	}
	return &student, nil
}

// List returns every student ordered by ID.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, `SELECT id, full_name FROM students ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
