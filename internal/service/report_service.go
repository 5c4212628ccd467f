package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/export"
)

// Bulk report output formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// Bulk report outcomes recorded in metrics.
const (
	outcomeGenerated = "generated"
	outcomeEmpty     = "empty"
	outcomeFailed    = "failed"
)

// CatalogNames bundles the display-name maps consumed by the row compiler.
type CatalogNames struct {
	Schools      map[string]string
	Courses      map[string]string
	Competencies map[string]string
}

// ReportArchive persists generated documents for later recovery.
type ReportArchive interface {
	Save(filename string, data []byte) (string, error)
}

// BulkReport is a rendered bulk document ready to stream to the caller.
type BulkReport struct {
	Filename    string
	ContentType string
	Content     []byte
	Students    int
}

// ReportService runs the bulk "full report" pipeline: all students matching
// the filter, classified, rendered into a document. Zero matches is a named
// outcome, not a failure; upstream failures surface as export errors and are
// never retried here.
type ReportService struct {
	records    RecordStore
	catalog    NameCatalog
	engine     *AggregationService
	classifier *RiskClassifier
	pdf        *export.PDFExporter
	csv        *export.CSVExporter
	archive    ReportArchive
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the bulk report pipeline. archive may be nil
// when archiving is disabled.
func NewReportService(records RecordStore, catalog NameCatalog, engine *AggregationService, classifier *RiskClassifier, archive ReportArchive, metrics *MetricsService, logger *zap.Logger) *ReportService {
	return &ReportService{
		records:    records,
		catalog:    catalog,
		engine:     engine,
		classifier: classifier,
		pdf:        export.NewPDFExporter(),
		csv:        export.NewCSVExporter(),
		archive:    archive,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateBulk produces the bulk student report for the spec. School-scoped
// actors are pinned to their own school before anything is loaded.
func (s *ReportService) GenerateBulk(ctx context.Context, claims *models.JWTClaims, spec models.FilterSpec, format string) (*BulkReport, error) {
	if scoped := effectiveSchoolScope(claims, spec.SchoolID); scoped != "" {
		spec.SchoolID = scoped
	}
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCSV {
		return nil, validationError("unsupported report format", map[string]interface{}{"format": format})
	}

	snapshot, err := s.records.Snapshot(ctx, spec.SchoolID)
	if err != nil {
		s.metrics.RecordBulkReport(outcomeFailed)
		return nil, s.exportFailure(spec, "record store unavailable", err)
	}

	metrics := s.engine.StudentRollups(snapshot, spec, s.now())
	if len(metrics) == 0 {
		s.metrics.RecordBulkReport(outcomeEmpty)
		return nil, appErrors.WithDetails(appErrors.ErrNoMatchingStudents, map[string]interface{}{
			"filters": spec.ActiveFilters(),
		})
	}

	names := loadCatalogNames(ctx, s.catalog, s.logger)
	now := s.now()
	for i := range metrics {
		metrics[i].Status, metrics[i].RiskFactors = s.classifier.Classify(metrics[i], now)
		metrics[i].SchoolName = displayName(names.Schools, metrics[i].SchoolID)
	}

	dataset := buildStudentDataset(metrics)
	content, contentType, ext, err := s.render(dataset, format, spec)
	if err != nil {
		s.metrics.RecordBulkReport(outcomeFailed)
		return nil, s.exportFailure(spec, "document rendering failed", err)
	}

	report := &BulkReport{
		Filename:    fmt.Sprintf("reporte_estudiantes_%s_%s.%s", now.Format("20060102_150405"), uuid.NewString()[:8], ext),
		ContentType: contentType,
		Content:     content,
		Students:    len(metrics),
	}
	s.archiveReport(report)
	s.metrics.RecordBulkReport(outcomeGenerated)
	return report, nil
}

func (s *ReportService) render(dataset export.Dataset, format string, spec models.FilterSpec) ([]byte, string, string, error) {
	if format == FormatCSV {
		content, err := s.csv.Render(dataset)
		return content, "text/csv", "csv", err
	}
	content, err := s.pdf.Render(dataset, "Reporte de estudiantes", bulkSubtitle(spec))
	return content, "application/pdf", "pdf", err
}

func (s *ReportService) archiveReport(report *BulkReport) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Save(report.Filename, report.Content); err != nil && s.logger != nil {
		s.logger.Warn("report archive failed", zap.String("filename", report.Filename), zap.Error(err))
	}
}

func (s *ReportService) exportFailure(spec models.FilterSpec, message string, cause error) *appErrors.Error {
	if s.logger != nil {
		s.logger.Error("bulk report failed", zap.String("reason", message), zap.Error(cause))
	}
	err := appErrors.Wrap(cause, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, message)
	return appErrors.WithDetails(err, map[string]interface{}{
		"filters": spec.ActiveFilters(),
		"cause":   cause.Error(),
	})
}

func bulkSubtitle(spec models.FilterSpec) string {
	active := spec.ActiveFilters()
	if len(active) == 0 {
		return "Todos los estudiantes"
	}
	return fmt.Sprintf("Filtros activos: %d", len(active))
}

func buildStudentDataset(metrics []models.StudentMetric) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{
			"Estudiante", "Colegio", "Grado", "Edad", "Genero", "Estrato",
			"Examenes", "Promedio", "Aprobacion %", "Progreso %",
			"Horas estudio", "Ultima actividad", "Estado",
		},
		Rows: make([]map[string]string, 0, len(metrics)),
	}
	for _, metric := range metrics {
		lastActivity := "N/A"
		if metric.LastActivity != nil {
			lastActivity = metric.LastActivity.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Estudiante":       metric.FullName,
			"Colegio":          metric.SchoolName,
			"Grado":            metric.Grade,
			"Edad":             fmt.Sprintf("%d", metric.Age),
			"Genero":           metric.Gender,
			"Estrato":          metric.Stratum,
			"Examenes":         fmt.Sprintf("%d", metric.TotalExams),
			"Promedio":         fmt.Sprintf("%.1f", metric.AverageScore),
			"Aprobacion %":     fmt.Sprintf("%.1f", metric.PassRate),
			"Progreso %":       fmt.Sprintf("%.1f", metric.AverageCourseProgress),
			"Horas estudio":    fmt.Sprintf("%.1f", metric.TotalStudyTimeHours),
			"Ultima actividad": lastActivity,
			"Estado":           string(metric.Status),
		})
	}
	return dataset
}

// AnnotateOverview fills display names on the grouped aggregates. A missing
// lookup substitutes "N/A", never an error.
func AnnotateOverview(overview *models.Overview, names CatalogNames) {
	for i := range overview.SchoolRanking {
		overview.SchoolRanking[i].SchoolName = displayName(names.Schools, overview.SchoolRanking[i].SchoolID)
	}
	for i := range overview.ReportRows {
		row := &overview.ReportRows[i]
		row.SchoolName = displayName(names.Schools, row.SchoolID)
		row.CourseName = displayName(names.Courses, row.CourseID)
		row.CompetencyName = displayName(names.Competencies, row.CompetencyID)
	}
	for i := range overview.CompReportRows {
		overview.CompReportRows[i].CompetencyName = displayName(names.Competencies, overview.CompReportRows[i].CompetencyID)
	}
}

// loadCatalogNames fetches the lookup maps, degrading to empty maps on
// failure so callers annotate with "N/A" instead of failing the request.
func loadCatalogNames(ctx context.Context, catalog NameCatalog, logger *zap.Logger) CatalogNames {
	names := CatalogNames{}
	if catalog == nil {
		return names
	}
	var err error
	if names.Schools, err = catalog.SchoolNames(ctx); err != nil && logger != nil {
		logger.Warn("school name lookup failed", zap.Error(err))
	}
	if names.Courses, err = catalog.CourseNames(ctx); err != nil && logger != nil {
		logger.Warn("course name lookup failed", zap.Error(err))
	}
	if names.Competencies, err = catalog.CompetencyNames(ctx); err != nil && logger != nil {
		logger.Warn("competency name lookup failed", zap.Error(err))
	}
	return names
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return "N/A"
}
