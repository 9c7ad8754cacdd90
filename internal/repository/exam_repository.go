package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// ExamRepository reads exam grades and exam-task links.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// Results returns every graded exam attempt.
func (r *ExamRepository) Results(ctx context.Context) ([]models.ExamResult, error) {
	var rows []models.ExamResult
	if err := r.db.SelectContext(ctx, &rows, `SELECT student_id, exam_id, grade FROM exam_results ORDER BY student_id, exam_id`); err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}
	return rows, nil
}

// TaskLinks returns the exam to task mapping.
func (r *ExamRepository) TaskLinks(ctx context.Context) ([]models.ExamTaskLink, error) {
	var rows []models.ExamTaskLink
	if err := r.db.SelectContext(ctx, &rows, `SELECT exam_id, task_id FROM exam_tasks ORDER BY exam_id, task_id`); err != nil {
		return nil, fmt.Errorf("list exam task links: %w", err)
	}
	return rows, nil
}
