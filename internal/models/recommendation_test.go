package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]RecommendationMode{
		"content":       ModeContent,
		" Collab ":      ModeCollaborative,
		"collaborative": ModeCollaborative,
		"3":             ModeHybrid,
	}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseMode("popular")
	assert.Error(t, err)
}

func TestNewRecommendationCopiesTask(t *testing.T) {
	task := CatalogTask{Task: Task{ID: 3, SectionID: 1, Description: "algebra basics", Complexity: 2, ThemeID: 10}, ThemeName: "Algebra"}

	rec := NewRecommendation(task, ReasonNotAttempted, SourceContent)

	assert.Equal(t, int64(3), rec.ID)
	assert.Equal(t, "Algebra", rec.ThemeName)
	assert.Equal(t, SourceContent, rec.Source)
	assert.Equal(t, ReasonNotAttempted, rec.Explanation)
}

func TestParseExportFormat(t *testing.T) {
	for raw, want := range map[string]ExportFormat{"": ExportCSV, ".md": ExportMarkdown, "markdown": ExportMarkdown, "PDF": ExportPDF} {
		got, err := ParseExportFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseExportFormat("xlsx")
	assert.Error(t, err)
}
