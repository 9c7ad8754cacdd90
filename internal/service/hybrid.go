package service

import "github.com/noah-isme/task-recommender/internal/models"

// MergeRecommendations concatenates content then collaborative results and keeps the first
// record per task, so a content explanation wins over a collaborative one.
// Missing theme names are filled from themes.
func MergeRecommendations(content, collaborative []models.Recommendation, themes map[int64]string) []models.Recommendation {
	merged := make([]models.Recommendation, 0, len(content)+len(collaborative))
	seen := make(map[int64]struct{}, len(content)+len(collaborative))

	for _, batch := range [][]models.Recommendation{content, collaborative} {
		for _, rec := range batch {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			if rec.ThemeName == "" {
				rec.ThemeName = themes[rec.ThemeID]
			}
			merged = append(merged, rec)
		}
	}
	return merged
}
