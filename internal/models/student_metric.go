package models

import "time"

// StudentStatus is the risk tier assigned to a student's rolled-up metrics.
// The values are displayed verbatim in the Spanish-facing UI.
type StudentStatus string

const (
	StatusExcellent StudentStatus = "excelente"
	StatusGood      StudentStatus = "bueno"
	StatusImprov    StudentStatus = "mejorable"
	StatusAttention StudentStatus = "requiere_atencion"
	StatusNoData    StudentStatus = "sin_datos"
)

// StudentMetric is the per-student rollup combining exam performance,
// platform engagement and the classified risk tier.
type StudentMetric struct {
	StudentID             string        `json:"studentId"`
	FullName              string        `json:"fullName"`
	SchoolID              string        `json:"schoolId"`
	SchoolName            string        `json:"schoolName"`
	Grade                 string        `json:"grade"`
	Age                   int           `json:"age"`
	Gender                string        `json:"gender"`
	Stratum               string        `json:"stratum"`
	TotalExams            int           `json:"totalExams"`
	AverageScore          float64       `json:"averageScore"`
	PassRate              float64       `json:"passRate"`
	AverageCourseProgress float64       `json:"averageCourseProgress"`
	TotalStudyTimeHours   float64       `json:"totalStudyTimeHours"`
	LastActivity          *time.Time    `json:"lastActivity,omitempty"`
	Status                StudentStatus `json:"status"`
	RiskFactors           []string      `json:"riskFactors"`
}

// AtRisk reports whether the student needs follow-up: either the bottom
// status tier or at least one standing risk factor.
func (m StudentMetric) AtRisk() bool {
	return m.Status == StatusAttention || len(m.RiskFactors) > 0
}
