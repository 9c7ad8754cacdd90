package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/task-recommender/internal/models"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
)

type catalogAuditSource interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListForms(ctx context.Context) ([]models.StudentForm, error)
	TasksWithThemes(ctx context.Context) ([]models.CatalogTask, error)
	ListThemeProgress(ctx context.Context) ([]models.ThemeProgress, error)
}

// Audited entity names.
const (
	EntityStudent  = "student"
	EntityForm     = "form"
	EntityTask     = "task"
	EntityProgress = "theme_progress"
)

// ValidationService audits catalog tables before a recommendation run.
// Issues are reported, never fixed; the engine tolerates all of them.
type ValidationService struct {
	source    catalogAuditSource
	validator *validator.Validate
	logger    *zap.Logger
}

// NewValidationService constructs the service.
func NewValidationService(source catalogAuditSource, validate *validator.Validate, logger *zap.Logger) *ValidationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ValidationService{source: source, validator: validate, logger: logger}
	svc.validator.RegisterValidation("preferences", func(fl validator.FieldLevel) bool {
		return len(models.ParsePreferences(fl.Field().String())) > 0
	})
	return svc
}

// RunAll checks students, forms, tasks and theme progress.
// A failed read is returned as ErrDataAccess; the issues gathered so far are kept.
func (s *ValidationService) RunAll(ctx context.Context) (*models.ValidationReport, error) {
	report := &models.ValidationReport{Checked: map[string]int{}, Issues: []models.ValidationIssue{}}

	students, err := s.source.ListStudents(ctx)
	if err != nil {
		return report, appErrors.WrapKind(err, appErrors.ErrDataAccess, "list students")
	}
	known := make(map[int64]struct{}, len(students))
	for _, st := range students {
		key := strconv.FormatInt(st.ID, 10)
		if _, dup := known[st.ID]; dup {
			report.Issues = append(report.Issues, duplicateIssue(EntityStudent, key))
		}
		known[st.ID] = struct{}{}
		s.check(report, EntityStudent, key, st)
	}
	report.Checked[EntityStudent] = len(students)

	forms, err := s.source.ListForms(ctx)
	if err != nil {
		return report, appErrors.WrapKind(err, appErrors.ErrDataAccess, "list forms")
	}
	for _, f := range forms {
		key := strconv.FormatInt(f.StudentID, 10)
		s.check(report, EntityForm, key, f)
		s.checkReference(report, EntityForm, key, f.StudentID, known)
	}
	report.Checked[EntityForm] = len(forms)

	tasks, err := s.source.TasksWithThemes(ctx)
	if err != nil {
		return report, appErrors.WrapKind(err, appErrors.ErrDataAccess, "list tasks")
	}
	seenTasks := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		key := strconv.FormatInt(t.ID, 10)
		if _, dup := seenTasks[t.ID]; dup {
			report.Issues = append(report.Issues, duplicateIssue(EntityTask, key))
		}
		seenTasks[t.ID] = struct{}{}
		s.check(report, EntityTask, key, t)
	}
	report.Checked[EntityTask] = len(tasks)

	progress, err := s.source.ListThemeProgress(ctx)
	if err != nil {
		return report, appErrors.WrapKind(err, appErrors.ErrDataAccess, "list theme progress")
	}
	for _, p := range progress {
		key := fmt.Sprintf("%d/%d", p.StudentID, p.ThemeID)
		s.check(report, EntityProgress, key, p)
		s.checkReference(report, EntityProgress, key, p.StudentID, known)
	}
	report.Checked[EntityProgress] = len(progress)

	for _, issue := range report.Issues {
		s.logger.Warn("catalog validation issue",
			zap.String("entity", issue.Entity),
			zap.String("key", issue.Key),
			zap.String("field", issue.Field),
			zap.String("rule", issue.Rule),
		)
	}
	s.logger.Info("catalog validation finished", zap.Any("checked", report.Checked), zap.Int("issues", len(report.Issues)))
	return report, nil
}

func (s *ValidationService) check(report *models.ValidationReport, entity, key string, value interface{}) {
	err := s.validator.Struct(value)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		report.Issues = append(report.Issues, models.ValidationIssue{Entity: entity, Key: key, Rule: "invalid", Message: err.Error()})
		return
	}
	for _, fe := range fieldErrs {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Entity:  entity,
			Key:     key,
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()),
		})
	}
}

func (s *ValidationService) checkReference(report *models.ValidationReport, entity, key string, studentID int64, known map[int64]struct{}) {
	if _, ok := known[studentID]; ok {
		return
	}
	report.Issues = append(report.Issues, models.ValidationIssue{
		Entity:  entity,
		Key:     key,
		Field:   "StudentID",
		Rule:    "student_exists",
		Message: fmt.Sprintf("student %d is not in the student table", studentID),
	})
}

func duplicateIssue(entity, key string) models.ValidationIssue {
	return models.ValidationIssue{Entity: entity, Key: key, Field: "ID", Rule: "unique", Message: fmt.Sprintf("%s %s appears more than once", entity, key)}
}
