package models

// ExamResult is a single graded exam attempt.
type ExamResult struct {
	StudentID int64   `db:"student_id" json:"student_id"`
	ExamID    int64   `db:"exam_id" json:"exam_id"`
	Grade     float64 `db:"grade" json:"grade"`
}

// ExamTaskLink ties an exam to one of the tasks it covers.
type ExamTaskLink struct {
	ExamID int64 `db:"exam_id" json:"exam_id"`
	TaskID int64 `db:"task_id" json:"task_id"`
}
