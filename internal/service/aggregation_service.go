package service

import (
	"math"
	"sort"
	"time"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/config"
)

const monthLayout = "2006-01"

// Score histogram buckets. They partition [0,100] so every attempt lands in
// exactly one of them.
var distributionLabels = []string{"0-19", "20-39", "40-59", "60-79", "80-100"}

// AggregationService is the pure in-memory engine that turns a record
// snapshot into the analytics overview. One pass filters attempts and
// activities against the spec; every grouping is then derived from the
// filtered sets without re-filtering. All percentages are attempt-weighted
// means, never averages of per-group averages.
type AggregationService struct {
	passingScore float64
}

// NewAggregationService constructs the engine.
func NewAggregationService(cfg config.AnalyticsConfig) *AggregationService {
	passing := cfg.PassingScore
	if passing <= 0 {
		passing = 60
	}
	return &AggregationService{passingScore: passing}
}

// Aggregate computes the full overview for the spec. An empty filtered set
// yields zero-valued structures, never an error.
func (s *AggregationService) Aggregate(snapshot *models.RecordSnapshot, spec models.FilterSpec, now time.Time) *models.Overview {
	students := indexStudents(snapshot.Students)
	cutoff, bounded := periodCutoff(spec, now)

	attempts := filterAttempts(snapshot.Attempts, students, spec, cutoff, bounded)
	activities := filterActivities(snapshot.Activities, students, spec, cutoff, bounded)

	overview := &models.Overview{
		KPIs:              s.kpis(attempts, activities),
		Engagement:        s.engagement(activities),
		GradeSeries:       s.gradeSeries(attempts, spec, now),
		GradeDistribution: s.gradeDistribution(attempts),
		HourlyActivity:    s.hourlyActivity(activities),
		SchoolRanking:     s.schoolRanking(attempts),
		ReportRows:        s.reportRows(attempts),
		CompReportRows:    s.compReportRows(attempts),
	}
	return overview
}

// StudentRollups computes the per-student metric rollup for every student
// matching the spec's demographic dimensions, including students without a
// single attempt. Status and risk factors are assigned by the classifier
// downstream.
func (s *AggregationService) StudentRollups(snapshot *models.RecordSnapshot, spec models.FilterSpec, now time.Time) []models.StudentMetric {
	cutoff, bounded := periodCutoff(spec, now)

	matched := make([]models.Student, 0, len(snapshot.Students))
	for _, st := range snapshot.Students {
		if matchesStudent(st, spec) {
			matched = append(matched, st)
		}
	}

	type rollup struct {
		scoreSum     float64
		attempts     int
		passed       int
		minutes      int
		progressSum  float64
		progressN    int
		lastActivity time.Time
	}
	rollups := make(map[string]*rollup, len(matched))
	for _, st := range matched {
		rollups[st.ID] = &rollup{}
	}

	for _, attempt := range snapshot.Attempts {
		acc, ok := rollups[attempt.StudentID]
		if !ok || !matchesAttempt(attempt, spec, cutoff, bounded) {
			continue
		}
		acc.scoreSum += attempt.Score
		acc.attempts++
		if attempt.Passed {
			acc.passed++
		}
	}

	for _, activity := range snapshot.Activities {
		acc, ok := rollups[activity.StudentID]
		if !ok || !matchesActivity(activity, spec, cutoff, bounded) {
			continue
		}
		acc.minutes += activity.DurationMinutes
		if activity.Timestamp.After(acc.lastActivity) {
			acc.lastActivity = activity.Timestamp
		}
	}

	for _, progress := range snapshot.Progress {
		acc, ok := rollups[progress.StudentID]
		if !ok {
			continue
		}
		if spec.CourseID != "" && progress.CourseID != spec.CourseID {
			continue
		}
		acc.progressSum += progress.ProgressPercent
		acc.progressN++
	}

	metrics := make([]models.StudentMetric, 0, len(matched))
	for _, st := range matched {
		acc := rollups[st.ID]
		metric := models.StudentMetric{
			StudentID:           st.ID,
			FullName:            st.FullName,
			SchoolID:            st.SchoolID,
			Grade:               st.Grade,
			Age:                 st.Age,
			Gender:              st.Gender,
			Stratum:             st.Stratum,
			TotalExams:          acc.attempts,
			TotalStudyTimeHours: round1(float64(acc.minutes) / 60),
		}
		if acc.attempts > 0 {
			metric.AverageScore = round1(acc.scoreSum / float64(acc.attempts))
			metric.PassRate = round1(float64(acc.passed) / float64(acc.attempts) * 100)
		}
		if acc.progressN > 0 {
			metric.AverageCourseProgress = round1(acc.progressSum / float64(acc.progressN))
		}
		if !acc.lastActivity.IsZero() {
			last := acc.lastActivity
			metric.LastActivity = &last
		}
		metrics = append(metrics, metric)
	}

	sort.Slice(metrics, func(i, j int) bool { return metrics[i].StudentID < metrics[j].StudentID })
	return metrics
}

func (s *AggregationService) kpis(attempts []models.ExamAttempt, activities []models.ActivityRecord) models.KPISet {
	active := make(map[string]struct{})
	var scoreSum float64
	passed := 0
	for _, attempt := range attempts {
		active[attempt.StudentID] = struct{}{}
		scoreSum += attempt.Score
		if attempt.Passed {
			passed++
		}
	}
	for _, activity := range activities {
		active[activity.StudentID] = struct{}{}
	}

	kpis := models.KPISet{
		ActiveStudents: len(active),
		ExamAttempts:   len(attempts),
	}
	if len(attempts) > 0 {
		kpis.AverageScore = round1(scoreSum / float64(len(attempts)))
		kpis.PassRate = round1(float64(passed) / float64(len(attempts)) * 100)
	}
	return kpis
}

func (s *AggregationService) engagement(activities []models.ActivityRecord) models.EngagementMetrics {
	active := make(map[string]struct{})
	minutes := 0
	for _, activity := range activities {
		active[activity.StudentID] = struct{}{}
		minutes += activity.DurationMinutes
	}

	engagement := models.EngagementMetrics{
		ActiveStudents:  len(active),
		TotalSessions:   len(activities),
		TotalStudyHours: round1(float64(minutes) / 60),
	}
	if len(activities) > 0 {
		engagement.AvgSessionMinutes = round1(float64(minutes) / float64(len(activities)))
	}
	return engagement
}

// gradeSeries buckets attempts by submission month. Months without attempts
// still appear with zero values so the series stays contiguous. A bounded
// period pins the window to the last N months ending at now; otherwise the
// window spans the observed min..max months.
func (s *AggregationService) gradeSeries(attempts []models.ExamAttempt, spec models.FilterSpec, now time.Time) []models.TimeSeriesPoint {
	type bucket struct {
		scoreSum float64
		attempts int
		passed   int
	}
	buckets := make(map[string]*bucket)
	var minMonth, maxMonth time.Time
	for _, attempt := range attempts {
		month := truncateToMonth(attempt.SubmittedAt)
		key := month.Format(monthLayout)
		acc, ok := buckets[key]
		if !ok {
			acc = &bucket{}
			buckets[key] = acc
		}
		acc.scoreSum += attempt.Score
		acc.attempts++
		if attempt.Passed {
			acc.passed++
		}
		if minMonth.IsZero() || month.Before(minMonth) {
			minMonth = month
		}
		if month.After(maxMonth) {
			maxMonth = month
		}
	}

	if months := spec.PeriodMonths(); months > 0 {
		// Window covers every month the cutoff can reach so no filtered
		// attempt falls outside the series.
		maxMonth = truncateToMonth(now)
		minMonth = truncateToMonth(now.AddDate(0, -months, 0))
	} else if minMonth.IsZero() {
		return []models.TimeSeriesPoint{}
	}

	series := make([]models.TimeSeriesPoint, 0, 12)
	for month := minMonth; !month.After(maxMonth); month = month.AddDate(0, 1, 0) {
		point := models.TimeSeriesPoint{Period: month.Format(monthLayout)}
		if acc, ok := buckets[point.Period]; ok {
			point.Attempts = acc.attempts
			point.AvgScore = round1(acc.scoreSum / float64(acc.attempts))
			point.PassRate = round1(float64(acc.passed) / float64(acc.attempts) * 100)
		}
		series = append(series, point)
	}
	return series
}

func (s *AggregationService) gradeDistribution(attempts []models.ExamAttempt) []models.DistributionBucket {
	counts := make([]int, len(distributionLabels))
	for _, attempt := range attempts {
		idx := int(attempt.Score) / 20
		if idx >= len(counts) {
			idx = len(counts) - 1
		}
		counts[idx]++
	}

	buckets := make([]models.DistributionBucket, len(distributionLabels))
	for i, label := range distributionLabels {
		buckets[i] = models.DistributionBucket{RangeLabel: label, StudentCount: counts[i]}
	}
	return buckets
}

func (s *AggregationService) hourlyActivity(activities []models.ActivityRecord) []models.HourlyActivityPoint {
	points := make([]models.HourlyActivityPoint, 24)
	for hour := range points {
		points[hour].Hour = hour
	}
	for _, activity := range activities {
		points[activity.Timestamp.Hour()].Sessions++
	}
	return points
}

// schoolRanking orders schools by attempt-weighted average score descending;
// ties break by schoolId ascending so the ranking is deterministic.
func (s *AggregationService) schoolRanking(attempts []models.ExamAttempt) []models.SchoolRankingEntry {
	type bucket struct {
		scoreSum float64
		attempts int
	}
	buckets := make(map[string]*bucket)
	for _, attempt := range attempts {
		acc, ok := buckets[attempt.SchoolID]
		if !ok {
			acc = &bucket{}
			buckets[attempt.SchoolID] = acc
		}
		acc.scoreSum += attempt.Score
		acc.attempts++
	}

	ranking := make([]models.SchoolRankingEntry, 0, len(buckets))
	for schoolID, acc := range buckets {
		ranking = append(ranking, models.SchoolRankingEntry{
			SchoolID: schoolID,
			AvgScore: round1(acc.scoreSum / float64(acc.attempts)),
			Attempts: acc.attempts,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].AvgScore != ranking[j].AvgScore {
			return ranking[i].AvgScore > ranking[j].AvgScore
		}
		return ranking[i].SchoolID < ranking[j].SchoolID
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking
}

func (s *AggregationService) reportRows(attempts []models.ExamAttempt) []models.ReportRow {
	type key struct{ school, course, competency string }
	type bucket struct {
		scoreSum float64
		attempts int
		passed   int
	}
	buckets := make(map[key]*bucket)
	for _, attempt := range attempts {
		k := key{attempt.SchoolID, attempt.CourseID, attempt.CompetencyID}
		acc, ok := buckets[k]
		if !ok {
			acc = &bucket{}
			buckets[k] = acc
		}
		acc.scoreSum += attempt.Score
		acc.attempts++
		if attempt.Passed {
			acc.passed++
		}
	}

	rows := make([]models.ReportRow, 0, len(buckets))
	for k, acc := range buckets {
		rows = append(rows, models.ReportRow{
			SchoolID:     k.school,
			CourseID:     k.course,
			CompetencyID: k.competency,
			Attempts:     acc.attempts,
			AvgScore:     round1(acc.scoreSum / float64(acc.attempts)),
			PassRate:     round1(float64(acc.passed) / float64(acc.attempts) * 100),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SchoolID != rows[j].SchoolID {
			return rows[i].SchoolID < rows[j].SchoolID
		}
		if rows[i].CourseID != rows[j].CourseID {
			return rows[i].CourseID < rows[j].CourseID
		}
		return rows[i].CompetencyID < rows[j].CompetencyID
	})
	return rows
}

func (s *AggregationService) compReportRows(attempts []models.ExamAttempt) []models.CompetencyReportRow {
	type key struct{ competency, difficulty string }
	type bucket struct {
		scoreSum float64
		attempts int
		passed   int
	}
	buckets := make(map[key]*bucket)
	for _, attempt := range attempts {
		k := key{attempt.CompetencyID, attempt.DifficultyLevel}
		acc, ok := buckets[k]
		if !ok {
			acc = &bucket{}
			buckets[k] = acc
		}
		acc.scoreSum += attempt.Score
		acc.attempts++
		if attempt.Passed {
			acc.passed++
		}
	}

	rows := make([]models.CompetencyReportRow, 0, len(buckets))
	for k, acc := range buckets {
		rows = append(rows, models.CompetencyReportRow{
			CompetencyID: k.competency,
			Difficulty:   k.difficulty,
			Attempts:     acc.attempts,
			AvgScore:     round1(acc.scoreSum / float64(acc.attempts)),
			PassRate:     round1(float64(acc.passed) / float64(acc.attempts) * 100),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CompetencyID != rows[j].CompetencyID {
			return rows[i].CompetencyID < rows[j].CompetencyID
		}
		return rows[i].Difficulty < rows[j].Difficulty
	})
	return rows
}

func indexStudents(students []models.Student) map[string]models.Student {
	index := make(map[string]models.Student, len(students))
	for _, st := range students {
		index[st.ID] = st
	}
	return index
}

func matchesStudent(st models.Student, spec models.FilterSpec) bool {
	if spec.SchoolID != "" && st.SchoolID != spec.SchoolID {
		return false
	}
	if spec.Grade != "" && st.Grade != spec.Grade {
		return false
	}
	if spec.Gender != "" && st.Gender != spec.Gender {
		return false
	}
	if spec.Stratum != "" && st.Stratum != spec.Stratum {
		return false
	}
	if spec.MinAge != nil && st.Age < *spec.MinAge {
		return false
	}
	if spec.MaxAge != nil && st.Age > *spec.MaxAge {
		return false
	}
	return true
}

func matchesAttempt(attempt models.ExamAttempt, spec models.FilterSpec, cutoff time.Time, bounded bool) bool {
	if spec.SchoolID != "" && attempt.SchoolID != spec.SchoolID {
		return false
	}
	if spec.CourseID != "" && attempt.CourseID != spec.CourseID {
		return false
	}
	if spec.CompetencyID != "" && attempt.CompetencyID != spec.CompetencyID {
		return false
	}
	if bounded && attempt.SubmittedAt.Before(cutoff) {
		return false
	}
	return true
}

func matchesActivity(activity models.ActivityRecord, spec models.FilterSpec, cutoff time.Time, bounded bool) bool {
	if spec.CourseID != "" && activity.CourseID != spec.CourseID {
		return false
	}
	if bounded && activity.Timestamp.Before(cutoff) {
		return false
	}
	return true
}

func filterAttempts(attempts []models.ExamAttempt, students map[string]models.Student, spec models.FilterSpec, cutoff time.Time, bounded bool) []models.ExamAttempt {
	filtered := make([]models.ExamAttempt, 0, len(attempts))
	for _, attempt := range attempts {
		st, ok := students[attempt.StudentID]
		if !ok || !matchesStudent(st, spec) {
			continue
		}
		if !matchesAttempt(attempt, spec, cutoff, bounded) {
			continue
		}
		filtered = append(filtered, attempt)
	}
	return filtered
}

func filterActivities(activities []models.ActivityRecord, students map[string]models.Student, spec models.FilterSpec, cutoff time.Time, bounded bool) []models.ActivityRecord {
	filtered := make([]models.ActivityRecord, 0, len(activities))
	for _, activity := range activities {
		st, ok := students[activity.StudentID]
		if !ok || !matchesStudent(st, spec) {
			continue
		}
		if !matchesActivity(activity, spec, cutoff, bounded) {
			continue
		}
		filtered = append(filtered, activity)
	}
	return filtered
}

func periodCutoff(spec models.FilterSpec, now time.Time) (time.Time, bool) {
	months := spec.PeriodMonths()
	if months == 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, -months, 0), true
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
