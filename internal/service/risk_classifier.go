package service

import (
	"time"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/config"
)

// Risk factor display strings. Shown verbatim in the Spanish-facing UI.
const (
	FactorLowScore     = "promedio de puntaje bajo"
	FactorLowPassRate  = "tasa de aprobacion baja"
	FactorLowProgress  = "progreso de cursos bajo"
	FactorInactive     = "inactividad prolongada"
	FactorLowStudyTime = "poco tiempo de estudio"
)

// RiskClassifier assigns each student a status tier and a list of risk
// factors. The tier ladder and the factor list are deliberately decoupled: a
// "bueno" student can still carry an inactivity factor.
type RiskClassifier struct {
	cfg config.RiskConfig
}

// NewRiskClassifier constructs a classifier with the provided thresholds.
func NewRiskClassifier(cfg config.RiskConfig) *RiskClassifier {
	return &RiskClassifier{cfg: cfg}
}

// Classify maps one student's rolled-up metrics to (status, riskFactors).
// The tier rules run in fixed order; the first match wins.
func (c *RiskClassifier) Classify(metric models.StudentMetric, now time.Time) (models.StudentStatus, []string) {
	status := c.status(metric)
	factors := c.factors(metric, now)
	return status, factors
}

func (c *RiskClassifier) status(metric models.StudentMetric) models.StudentStatus {
	switch {
	case metric.TotalExams == 0:
		return models.StatusNoData
	case metric.AverageScore < c.cfg.AttentionScore || metric.PassRate < c.cfg.AttentionPassRate:
		return models.StatusAttention
	case metric.AverageScore < c.cfg.ImprovableScore:
		return models.StatusImprov
	case metric.AverageScore < c.cfg.GoodScore:
		return models.StatusGood
	default:
		return models.StatusExcellent
	}
}

func (c *RiskClassifier) factors(metric models.StudentMetric, now time.Time) []string {
	factors := make([]string, 0, 5)
	if metric.TotalExams > 0 && metric.AverageScore < c.cfg.AttentionScore {
		factors = append(factors, FactorLowScore)
	}
	if metric.TotalExams > 0 && metric.PassRate < c.cfg.AttentionPassRate {
		factors = append(factors, FactorLowPassRate)
	}
	if metric.AverageCourseProgress < c.cfg.LowProgress {
		factors = append(factors, FactorLowProgress)
	}
	if metric.LastActivity == nil || now.Sub(*metric.LastActivity) > c.cfg.InactivityWindow {
		factors = append(factors, FactorInactive)
	}
	if metric.TotalStudyTimeHours < c.cfg.LowStudyHours {
		factors = append(factors, FactorLowStudyTime)
	}
	return factors
}
