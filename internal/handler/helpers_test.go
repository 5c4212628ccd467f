package handler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/config"
)

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type recordStoreStub struct {
	snapshot     *models.RecordSnapshot
	err          error
	calls        int
	lastSchoolID string
}

func (s *recordStoreStub) Snapshot(ctx context.Context, schoolID string) (*models.RecordSnapshot, error) {
	s.calls++
	s.lastSchoolID = schoolID
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshot == nil {
		return &models.RecordSnapshot{}, nil
	}
	return s.snapshot, nil
}

type catalogStub struct {
	schools map[string]string
	belongs bool
}

func (s *catalogStub) SchoolNames(ctx context.Context) (map[string]string, error) {
	return s.schools, nil
}

func (s *catalogStub) CourseNames(ctx context.Context) (map[string]string, error) {
	return nil, nil
}

func (s *catalogStub) CompetencyNames(ctx context.Context) (map[string]string, error) {
	return nil, nil
}

func (s *catalogStub) CourseBelongsToSchool(ctx context.Context, courseID, schoolID string) (bool, error) {
	return s.belongs, nil
}

func testSnapshot() *models.RecordSnapshot {
	now := time.Now()
	return &models.RecordSnapshot{
		Students: []models.Student{
			{ID: "st-1", FullName: "Ana Torres", SchoolID: "sch-1", Grade: "once", Age: 16, Gender: "femenino", Stratum: "3"},
			{ID: "st-2", FullName: "Luis Pardo", SchoolID: "sch-2", Grade: "decimo", Age: 15, Gender: "masculino", Stratum: "2"},
		},
		Attempts: []models.ExamAttempt{
			{ID: "at-1", StudentID: "st-1", ExamID: "ex-1", CompetencyID: "C1", SchoolID: "sch-1", CourseID: "crs-1", Score: 85, Passed: true, SubmittedAt: now.AddDate(0, 0, -1), DifficultyLevel: "medio"},
			{ID: "at-2", StudentID: "st-2", ExamID: "ex-2", CompetencyID: "C1", SchoolID: "sch-2", CourseID: "crs-2", Score: 45, Passed: false, SubmittedAt: now.AddDate(0, 0, -2), DifficultyLevel: "medio"},
		},
		Activities: []models.ActivityRecord{
			{ID: "act-1", StudentID: "st-1", CourseID: "crs-1", Timestamp: now.Add(-2 * time.Hour), DurationMinutes: 45},
		},
	}
}

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		AttentionScore:    60,
		AttentionPassRate: 50,
		ImprovableScore:   70,
		GoodScore:         80,
		LowProgress:       40,
		LowStudyHours:     5,
		InactivityWindow:  14 * 24 * time.Hour,
	}
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{CacheTTL: 5 * time.Minute, DefaultPageSize: 20, PassingScore: 60}
}

func disabledCache() *service.CacheService {
	return service.NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
}
