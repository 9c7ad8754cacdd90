package service

import (
	"strings"

	"github.com/noah-isme/task-recommender/internal/models"
)

// DefaultProgressThreshold marks a theme as weak when progress is strictly below it.
const DefaultProgressThreshold = 70.0

// ContentInput carries everything the content scorer looks at for one student.
type ContentInput struct {
	Catalog     []models.CatalogTask
	Completed   map[int64]struct{}
	Preferences []string
	Progress    []models.ThemeProgress
	Threshold   float64
}

// ScoreContent explains every task the student has not completed yet.
// Tasks with neither an interest match nor low mastery are still returned as "not yet attempted".
func ScoreContent(in ContentInput) []models.Recommendation {
	threshold := in.Threshold
	if threshold <= 0 {
		threshold = DefaultProgressThreshold
	}

	lowMastery := make(map[int64]struct{})
	for _, p := range in.Progress {
		if p.Progress < threshold {
			lowMastery[p.ThemeID] = struct{}{}
		}
	}

	prefs := make([]string, 0, len(in.Preferences))
	for _, p := range in.Preferences {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			prefs = append(prefs, p)
		}
	}

	seen := make(map[int64]struct{}, len(in.Catalog))
	recs := make([]models.Recommendation, 0, len(in.Catalog))
	for _, task := range in.Catalog {
		if _, done := in.Completed[task.ID]; done {
			continue
		}
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}

		reasons := make([]string, 0, 2)
		if matchesInterest(task.ThemeName, prefs) {
			reasons = append(reasons, models.ReasonInterestMatch)
		}
		if _, weak := lowMastery[task.ThemeID]; weak {
			reasons = append(reasons, models.ReasonLowMastery)
		}
		if len(reasons) == 0 {
			reasons = append(reasons, models.ReasonNotAttempted)
		}

		recs = append(recs, models.NewRecommendation(task, strings.Join(reasons, models.ReasonSeparator), models.SourceContent))
	}
	return recs
}

func matchesInterest(themeName string, prefs []string) bool {
	if themeName == "" || len(prefs) == 0 {
		return false
	}
	name := strings.ToLower(themeName)
	for _, p := range prefs {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
