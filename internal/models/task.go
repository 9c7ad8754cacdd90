package models

// Task is a practice exercise owned by a theme.
type Task struct {
	ID          int64  `db:"id" json:"id" validate:"gt=0"`
	SectionID   int64  `db:"section_id" json:"section_id"`
	Description string `db:"description" json:"description" validate:"required"`
	Complexity  int    `db:"complexity" json:"complexity" validate:"gte=0"`
	ThemeID     int64  `db:"theme_id" json:"theme_id" validate:"gt=0"`
}

// CatalogTask is a task joined with its theme name.
type CatalogTask struct {
	Task
	ThemeName string `db:"theme_name" json:"theme_name" validate:"required"`
}

// Theme is a curriculum topic grouping related tasks.
type Theme struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
