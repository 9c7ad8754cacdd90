package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/task-recommender/internal/models"
)

// CatalogRepository is the read-only view of the learning catalog used by the recommendation engine.
// It owns no connection of its own; the pool behind db is shared and closed by the caller.
type CatalogRepository struct {
	students    *StudentRepository
	tasks       *TaskRepository
	preferences *PreferenceRepository
	progress    *ProgressRepository
	exams       *ExamRepository
}

// NewCatalogRepository wires the per-table repositories over one database handle.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{
		students:    NewStudentRepository(db),
		tasks:       NewTaskRepository(db),
		preferences: NewPreferenceRepository(db),
		progress:    NewProgressRepository(db),
		exams:       NewExamRepository(db),
	}
}

// FindStudent returns the student or nil when absent.
func (r *CatalogRepository) FindStudent(ctx context.Context, id int64) (*models.Student, error) {
	return r.students.FindByID(ctx, id)
}

// ListStudents returns every student ordered by ID.
func (r *CatalogRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	return r.students.List(ctx)
}

// Preferences returns the parsed interests from the student's form.
func (r *CatalogRepository) Preferences(ctx context.Context, studentID int64) ([]string, error) {
	return r.preferences.ByStudent(ctx, studentID)
}

// ListForms returns all questionnaire forms.
func (r *CatalogRepository) ListForms(ctx context.Context) ([]models.StudentForm, error) {
	return r.preferences.List(ctx)
}

// CompletedTaskIDs returns the tasks already met in scheduled lessons.
func (r *CatalogRepository) CompletedTaskIDs(ctx context.Context, studentID int64) (map[int64]struct{}, error) {
	return r.tasks.CompletedTaskIDs(ctx, studentID)
}

// TasksWithThemes returns the catalog joined with theme names.
func (r *CatalogRepository) TasksWithThemes(ctx context.Context) ([]models.CatalogTask, error) {
	return r.tasks.TasksWithThemes(ctx)
}

// Themes returns theme names keyed by ID.
func (r *CatalogRepository) Themes(ctx context.Context) (map[int64]string, error) {
	return r.tasks.Themes(ctx)
}

// ThemeProgress returns the student's per-theme mastery.
func (r *CatalogRepository) ThemeProgress(ctx context.Context, studentID int64) ([]models.ThemeProgress, error) {
	return r.progress.ByStudent(ctx, studentID)
}

// ListThemeProgress returns every progress row.
func (r *CatalogRepository) ListThemeProgress(ctx context.Context) ([]models.ThemeProgress, error) {
	return r.progress.List(ctx)
}

// ExamResults returns every graded exam attempt.
func (r *CatalogRepository) ExamResults(ctx context.Context) ([]models.ExamResult, error) {
	return r.exams.Results(ctx)
}

// ExamTaskLinks returns the exam to task mapping.
func (r *CatalogRepository) ExamTaskLinks(ctx context.Context) ([]models.ExamTaskLink, error) {
	return r.exams.TaskLinks(ctx)
}
