package models

// ThemeProgress is a student's mastery percentage for one theme.
type ThemeProgress struct {
	StudentID int64   `db:"student_id" json:"student_id" validate:"gt=0"`
	ThemeID   int64   `db:"theme_id" json:"theme_id" validate:"gt=0"`
	Progress  float64 `db:"progress" json:"progress" validate:"gte=0,lte=100"`
}
