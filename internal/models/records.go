package models

import "time"

// Student represents a learner registered on the platform.
type Student struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"fullName"`
	SchoolID string `db:"school_id" json:"schoolId"`
	Grade    string `db:"grade" json:"grade"`
	Age      int    `db:"age" json:"age"`
	Gender   string `db:"gender" json:"gender"`
	Stratum  string `db:"stratum" json:"stratum"`
}

// ExamAttempt is one completed exam or simulation attempt. Passed is derived
// from the configured passing score at ingest time.
type ExamAttempt struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"studentId"`
	ExamID          string    `db:"exam_id" json:"examId"`
	CompetencyID    string    `db:"competency_id" json:"competencyId"`
	SchoolID        string    `db:"school_id" json:"schoolId"`
	CourseID        string    `db:"course_id" json:"courseId"`
	Score           float64   `db:"score" json:"score"`
	Passed          bool      `db:"passed" json:"passed"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submittedAt"`
	DifficultyLevel string    `db:"difficulty_level" json:"difficultyLevel"`
}

// ActivityRecord is one unit of student platform activity, such as a study
// session or lesson completion.
type ActivityRecord struct {
	ID              string    `db:"id" json:"id"`
	StudentID       string    `db:"student_id" json:"studentId"`
	CourseID        string    `db:"course_id" json:"courseId"`
	Timestamp       time.Time `db:"timestamp" json:"timestamp"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
}

// CourseProgress tracks how far a student has advanced through a course.
type CourseProgress struct {
	StudentID       string    `db:"student_id" json:"studentId"`
	CourseID        string    `db:"course_id" json:"courseId"`
	ProgressPercent float64   `db:"progress_percent" json:"progressPercent"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// RecordSnapshot is the read-only view of the record store handed to the
// aggregation engine. It is loaded per request and never mutated.
type RecordSnapshot struct {
	Students   []Student
	Attempts   []ExamAttempt
	Activities []ActivityRecord
	Progress   []CourseProgress
}
