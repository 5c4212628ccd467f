package models

import "time"

// KPISet carries the top-line counters for a filter combination.
type KPISet struct {
	ActiveStudents int     `json:"activeStudents"`
	AverageScore   float64 `json:"averageScore"`
	ExamAttempts   int     `json:"examAttempts"`
	PassRate       float64 `json:"passRate"`
}

// EngagementMetrics summarises platform activity for the filtered cohort.
type EngagementMetrics struct {
	ActiveStudents    int     `json:"activeStudents"`
	TotalSessions     int     `json:"totalSessions"`
	TotalStudyHours   float64 `json:"totalStudyHours"`
	AvgSessionMinutes float64 `json:"avgSessionMinutes"`
}

// TimeSeriesPoint is one month bucket of the grade series. Months without
// attempts still appear with zero values so charts stay contiguous.
type TimeSeriesPoint struct {
	Period   string  `json:"period"`
	AvgScore float64 `json:"avgScore"`
	PassRate float64 `json:"passRate"`
	Attempts int     `json:"attempts"`
}

// DistributionBucket is one grade-range histogram bucket. Buckets partition
// the score range so every attempt lands in exactly one of them.
type DistributionBucket struct {
	RangeLabel   string `json:"rangeLabel"`
	StudentCount int    `json:"studentCount"`
}

// SchoolRankingEntry is one institution's aggregate standing.
type SchoolRankingEntry struct {
	SchoolID   string  `json:"schoolId"`
	SchoolName string  `json:"schoolName"`
	AvgScore   float64 `json:"avgScore"`
	Attempts   int     `json:"attempts"`
	Rank       int     `json:"rank"`
}

// HourlyActivityPoint counts study sessions per hour of day.
type HourlyActivityPoint struct {
	Hour     int `json:"hour"`
	Sessions int `json:"sessions"`
}

// ReportRow is one (school, course, competency) aggregate annotated with
// display names by the report compiler.
type ReportRow struct {
	SchoolID       string  `json:"schoolId"`
	SchoolName     string  `json:"schoolName"`
	CourseID       string  `json:"courseId"`
	CourseName     string  `json:"courseName"`
	CompetencyID   string  `json:"competencyId"`
	CompetencyName string  `json:"competencyName"`
	Attempts       int     `json:"attempts"`
	AvgScore       float64 `json:"avgScore"`
	PassRate       float64 `json:"passRate"`
}

// CompetencyReportRow is one (competency, difficulty) aggregate.
type CompetencyReportRow struct {
	CompetencyID   string  `json:"competencyId"`
	CompetencyName string  `json:"competencyName"`
	Difficulty     string  `json:"difficulty"`
	Attempts       int     `json:"attempts"`
	AvgScore       float64 `json:"avgScore"`
	PassRate       float64 `json:"passRate"`
}

// Overview bundles every aggregate the query operation returns.
type Overview struct {
	KPIs              KPISet                `json:"kpis"`
	Engagement        EngagementMetrics     `json:"engagementMetrics"`
	GradeSeries       []TimeSeriesPoint     `json:"gradeSeries"`
	GradeDistribution []DistributionBucket  `json:"gradeDistribution"`
	HourlyActivity    []HourlyActivityPoint `json:"hourlyActivity"`
	SchoolRanking     []SchoolRankingEntry  `json:"schoolRanking"`
	ReportRows        []ReportRow           `json:"reportRows"`
	CompReportRows    []CompetencyReportRow `json:"compReportRows"`
}

// SystemMetrics represents system level analytics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
