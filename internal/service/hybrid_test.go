package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/task-recommender/internal/models"
)

func TestMergeRecommendationsContentWins(t *testing.T) {
	content := []models.Recommendation{
		{ID: 3, ThemeID: 10, ThemeName: "Algebra", Explanation: "interest match", Source: models.SourceContent},
	}
	collaborative := []models.Recommendation{
		{ID: 3, ThemeID: 10, ThemeName: "Algebra", Explanation: models.ReasonSimilarStudents, Source: models.SourceCollaborative},
		{ID: 7, ThemeID: 20, Explanation: models.ReasonSimilarStudents, Source: models.SourceCollaborative},
	}

	merged := MergeRecommendations(content, collaborative, map[int64]string{10: "Ignored", 20: "Geometry"})

	require.Len(t, merged, 2)
	assert.Equal(t, int64(3), merged[0].ID)
	assert.Equal(t, "interest match", merged[0].Explanation)
	assert.Equal(t, models.SourceContent, merged[0].Source)
	assert.Equal(t, "Algebra", merged[0].ThemeName)
	assert.Equal(t, "Geometry", merged[1].ThemeName)
}

func TestMergeRecommendationsEmpty(t *testing.T) {
	merged := MergeRecommendations(nil, nil, nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
