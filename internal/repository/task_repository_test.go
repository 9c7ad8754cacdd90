package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepositoryCompletedTaskIDs(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN schedule s ON sl.schedule_id = s.id\n        WHERE s.student_id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	completed, err := repo.CompletedTaskIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, completed, 2)
	assert.Contains(t, completed, int64(1))
	assert.Contains(t, completed, int64(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryTasksWithThemes(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "section_id", "description", "complexity", "theme_id", "theme_name"}).
		AddRow(3, 1, "solve linear equations", 2, 10, "Algebra").
		AddRow(4, 1, "triangle area", 1, 20, "Geometry")
	mock.ExpectQuery(regexp.QuoteMeta("th.name AS theme_name")).WillReturnRows(rows)

	tasks, err := repo.TasksWithThemes(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(3), tasks[0].ID)
	assert.Equal(t, "Algebra", tasks[0].ThemeName)
	assert.Equal(t, int64(20), tasks[1].ThemeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryThemes(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM themes ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(10, "Algebra").AddRow(20, "Geometry"))

	themes, err := repo.Themes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{10: "Algebra", 20: "Geometry"}, themes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
