package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// TaskRepository reads the task catalog and lesson history.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs a TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CompletedTaskIDs returns the tasks a student met through scheduled lessons.
func (r *TaskRepository) CompletedTaskIDs(ctx context.Context, studentID int64) (map[int64]struct{}, error) {
	query := r.db.Rebind(`SELECT DISTINCT t.id
        FROM tasks t
        JOIN lesson_tasks lt ON t.id = lt.task_id
        JOIN lessons l ON lt.lesson_id = l.id
        JOIN schedule_lessons sl ON l.id = sl.lesson_id
        JOIN schedule s ON sl.schedule_id = s.id
        WHERE s.student_id = ?`)
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("completed tasks for student %d: %w", studentID, err)
	}
	completed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		completed[id] = struct{}{}
	}
	return completed, nil
}

// TasksWithThemes returns the full catalog joined with theme names, ordered by task ID.
func (r *TaskRepository) TasksWithThemes(ctx context.Context) ([]models.CatalogTask, error) {
	const query = `SELECT t.id, t.section_id, t.description, t.complexity, t.theme_id, th.name AS theme_name
        FROM tasks t
        JOIN themes th ON t.theme_id = th.id
        ORDER BY t.id`
	var tasks []models.CatalogTask
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("list tasks with themes: %w", err)
	}
	return tasks, nil
}

// Themes returns theme names keyed by ID.
func (r *TaskRepository) Themes(ctx context.Context) (map[int64]string, error) {
	var themes []models.Theme
	if err := r.db.SelectContext(ctx, &themes, `SELECT id, name FROM themes ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	names := make(map[int64]string, len(themes))
	for _, th := range themes {
		names[th.ID] = th.Name
	}
	return names, nil
}
