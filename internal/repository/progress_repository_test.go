package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/task-recommender/internal/models"
)

func TestProgressRepositoryByStudent(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM student_theme_progress WHERE student_id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "theme_id", "progress"}).AddRow(5, 10, 40.0).AddRow(5, 20, 90.0))

	rows, err := repo.ByStudent(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []models.ThemeProgress{{StudentID: 5, ThemeID: 10, Progress: 40}, {StudentID: 5, ThemeID: 20, Progress: 90}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepositoryListError(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewProgressRepository(db)

	mock.ExpectQuery("FROM student_theme_progress").WillReturnError(errors.New("no such table"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list theme progress")
}
