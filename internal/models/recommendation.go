package models

import (
	"fmt"
	"strings"
)

// RecommendationSource identifies which signal produced a recommendation.
type RecommendationSource string

const (
	SourceContent       RecommendationSource = "content"
	SourceCollaborative RecommendationSource = "collaborative"
)

// RecommendationMode selects the engine entry point.
type RecommendationMode string

const (
	ModeContent       RecommendationMode = "content"
	ModeCollaborative RecommendationMode = "collaborative"
	ModeHybrid        RecommendationMode = "hybrid"
)

// Explanation reasons attached to recommendations.
const (
	ReasonInterestMatch   = "interest match"
	ReasonLowMastery      = "low mastery"
	ReasonNotAttempted    = "not yet attempted"
	ReasonSimilarStudents = "similar students answered this"

	ReasonSeparator = ", "
)

// Recommendation is a task suggested to a student together with the reason it was picked.
type Recommendation struct {
	ID          int64                `json:"id"`
	SectionID   int64                `json:"section_id"`
	Description string               `json:"description"`
	Complexity  int                  `json:"complexity"`
	ThemeID     int64                `json:"theme_id"`
	ThemeName   string               `json:"theme_name"`
	Explanation string               `json:"explanation"`
	Source      RecommendationSource `json:"source"`
}

// NewRecommendation copies the task attributes of t.
func NewRecommendation(t CatalogTask, explanation string, source RecommendationSource) Recommendation {
	return Recommendation{
		ID:          t.ID,
		SectionID:   t.SectionID,
		Description: t.Description,
		Complexity:  t.Complexity,
		ThemeID:     t.ThemeID,
		ThemeName:   t.ThemeName,
		Explanation: explanation,
		Source:      source,
	}
}

// ParseMode accepts the CLI and API spellings of a mode ("collab" is kept for old scripts).
func ParseMode(raw string) (RecommendationMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "content", "1":
		return ModeContent, nil
	case "collaborative", "collab", "2":
		return ModeCollaborative, nil
	case "hybrid", "3":
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("unknown recommendation mode %q", raw)
	}
}

// ExportFormat is a rendered report type.
type ExportFormat string

const (
	ExportCSV      ExportFormat = "csv"
	ExportMarkdown ExportFormat = "md"
	ExportPDF      ExportFormat = "pdf"
)

// ParseExportFormat accepts the file extension spellings.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "", "csv":
		return ExportCSV, nil
	case "md", "markdown":
		return ExportMarkdown, nil
	case "pdf":
		return ExportPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q", raw)
	}
}
