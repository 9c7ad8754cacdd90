package models

import "strings"

// Student represents a learner known to the platform.
type Student struct {
	ID       int64  `db:"id" json:"id" validate:"gt=0"`
	FullName string `db:"full_name" json:"full_name"`
}

// StudentForm holds the questionnaire answers a student filled in.
type StudentForm struct {
	StudentID   int64  `db:"student_id" json:"student_id" validate:"gt=0"`
	Preferences string `db:"preferences" json:"preferences" validate:"preferences"`
}

// ParsePreferences splits the comma separated preference field, preserving order.
func ParsePreferences(raw string) []string {
	parts := strings.Split(raw, ",")
	prefs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			prefs = append(prefs, trimmed)
		}
	}
	return prefs
}
