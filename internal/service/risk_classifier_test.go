package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
)

func TestRiskClassifierNoDataDominates(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())

	status, _ := classifier.Classify(models.StudentMetric{
		TotalExams:   0,
		AverageScore: 95,
		PassRate:     100,
	}, time.Now())
	assert.Equal(t, models.StatusNoData, status)
}

func TestRiskClassifierScoreThresholdDominatesPassRate(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())

	status, factors := classifier.Classify(models.StudentMetric{
		TotalExams:   10,
		AverageScore: 59,
		PassRate:     90,
	}, time.Now())
	assert.Equal(t, models.StatusAttention, status)
	assert.Contains(t, factors, FactorLowScore)
	assert.NotContains(t, factors, FactorLowPassRate)
}

func TestRiskClassifierTierLadder(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())
	now := time.Now()
	recent := now.Add(-time.Hour)

	cases := []struct {
		name     string
		avg      float64
		passRate float64
		want     models.StudentStatus
	}{
		{"attention on low pass rate", 75, 40, models.StatusAttention},
		{"improvable", 65, 80, models.StatusImprov},
		{"good", 75, 80, models.StatusGood},
		{"excellent", 85, 90, models.StatusExcellent},
		{"boundary 60 is not attention", 60, 50, models.StatusImprov},
		{"boundary 80 is excellent", 80, 90, models.StatusExcellent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := classifier.Classify(models.StudentMetric{
				TotalExams:            5,
				AverageScore:          tc.avg,
				PassRate:              tc.passRate,
				AverageCourseProgress: 80,
				TotalStudyTimeHours:   12,
				LastActivity:          &recent,
			}, now)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestRiskClassifierFactorsDecoupledFromStatus(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())
	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour)

	status, factors := classifier.Classify(models.StudentMetric{
		TotalExams:            8,
		AverageScore:          76,
		PassRate:              85,
		AverageCourseProgress: 70,
		TotalStudyTimeHours:   10,
		LastActivity:          &stale,
	}, now)
	assert.Equal(t, models.StatusGood, status)
	assert.Equal(t, []string{FactorInactive}, factors)
}

func TestRiskClassifierAllFactors(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())

	status, factors := classifier.Classify(models.StudentMetric{
		TotalExams:            3,
		AverageScore:          40,
		PassRate:              20,
		AverageCourseProgress: 10,
		TotalStudyTimeHours:   1,
		LastActivity:          nil,
	}, time.Now())
	assert.Equal(t, models.StatusAttention, status)
	assert.ElementsMatch(t, []string{
		FactorLowScore, FactorLowPassRate, FactorLowProgress, FactorInactive, FactorLowStudyTime,
	}, factors)
}

func TestRiskClassifierNeverActiveIsInactive(t *testing.T) {
	classifier := NewRiskClassifier(testRiskConfig())

	_, factors := classifier.Classify(models.StudentMetric{
		TotalExams:            2,
		AverageScore:          90,
		PassRate:              100,
		AverageCourseProgress: 90,
		TotalStudyTimeHours:   20,
	}, time.Now())
	assert.Contains(t, factors, FactorInactive)
}
