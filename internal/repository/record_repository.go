package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
)

// RecordRepository loads the read-only record snapshot the aggregation
// engine works on. Datasets are institution-scale, so a full scoped load per
// cache miss stays cheap and keeps the engine free of SQL.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository instantiates the repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Snapshot loads students, exam attempts, activity and course progress,
// optionally scoped to one school. An empty schoolID loads the full store.
func (r *RecordRepository) Snapshot(ctx context.Context, schoolID string) (*models.RecordSnapshot, error) {
	snapshot := &models.RecordSnapshot{}

	students, err := r.listStudents(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	snapshot.Students = students

	attempts, err := r.listAttempts(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	snapshot.Attempts = attempts

	activities, err := r.listActivities(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	snapshot.Activities = activities

	progress, err := r.listProgress(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	snapshot.Progress = progress

	return snapshot, nil
}

func (r *RecordRepository) listStudents(ctx context.Context, schoolID string) ([]models.Student, error) {
	query := "SELECT id, full_name, school_id, grade, age, gender, stratum FROM students"
	var args []interface{}
	if schoolID != "" {
		args = append(args, schoolID)
		query += fmt.Sprintf(" WHERE school_id = $%d", len(args))
	}
	query += " ORDER BY id"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	return students, nil
}

func (r *RecordRepository) listAttempts(ctx context.Context, schoolID string) ([]models.ExamAttempt, error) {
	query := `SELECT id, student_id, exam_id, competency_id, school_id, course_id,
        score, passed, submitted_at, difficulty_level FROM exam_attempts`
	var args []interface{}
	if schoolID != "" {
		args = append(args, schoolID)
		query += fmt.Sprintf(" WHERE school_id = $%d", len(args))
	}
	query += " ORDER BY submitted_at"

	var attempts []models.ExamAttempt
	if err := r.db.SelectContext(ctx, &attempts, query, args...); err != nil {
		return nil, fmt.Errorf("query exam attempts: %w", err)
	}
	return attempts, nil
}

func (r *RecordRepository) listActivities(ctx context.Context, schoolID string) ([]models.ActivityRecord, error) {
	query := `SELECT a.id, a.student_id, a.course_id, a.timestamp, a.duration_minutes
        FROM activity_records a`
	var args []interface{}
	if schoolID != "" {
		args = append(args, schoolID)
		query += fmt.Sprintf(" JOIN students s ON s.id = a.student_id WHERE s.school_id = $%d", len(args))
	}
	query += " ORDER BY a.timestamp"

	var activities []models.ActivityRecord
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("query activity records: %w", err)
	}
	return activities, nil
}

func (r *RecordRepository) listProgress(ctx context.Context, schoolID string) ([]models.CourseProgress, error) {
	query := `SELECT p.student_id, p.course_id, p.progress_percent, p.updated_at
        FROM course_progress p`
	var args []interface{}
	if schoolID != "" {
		args = append(args, schoolID)
		query += fmt.Sprintf(" JOIN students s ON s.id = p.student_id WHERE s.school_id = $%d", len(args))
	}

	var progress []models.CourseProgress
	if err := r.db.SelectContext(ctx, &progress, query, args...); err != nil {
		return nil, fmt.Errorf("query course progress: %w", err)
	}
	return progress, nil
}
