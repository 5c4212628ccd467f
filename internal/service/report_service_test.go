package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
)

type archiveStub struct {
	saved map[string][]byte
	err   error
}

func (a *archiveStub) Save(filename string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.saved == nil {
		a.saved = make(map[string][]byte)
	}
	a.saved[filename] = data
	return filename, nil
}

func newReportFixture(records *recordStoreStub, archive ReportArchive) *ReportService {
	catalog := &catalogStub{schools: map[string]string{"sch-1": "Colegio San Mateo"}}
	svc := NewReportService(records, catalog, NewAggregationService(testAnalyticsConfig()), NewRiskClassifier(testRiskConfig()), archive, NewMetricsService(), zap.NewNop())
	svc.now = func() time.Time { return aggNow }
	return svc
}

func TestBulkReportGeneratesPDF(t *testing.T) {
	records := &recordStoreStub{snapshot: baseSnapshot()}
	archive := &archiveStub{}
	svc := newReportFixture(records, archive)

	report, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{SchoolID: "sch-1"}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, 2, report.Students)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF")))
	assert.Len(t, archive.saved, 1)
}

func TestBulkReportGeneratesCSV(t *testing.T) {
	records := &recordStoreStub{snapshot: baseSnapshot()}
	svc := newReportFixture(records, nil)

	report, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(report.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Estudiante", rows[0][0])
	assert.Equal(t, "Ana Torres", rows[1][0])
}

func TestBulkReportNoMatchingStudents(t *testing.T) {
	records := &recordStoreStub{snapshot: baseSnapshot()}
	svc := newReportFixture(records, nil)

	_, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{Grade: "once", Gender: "femenino", Stratum: "6"}, FormatPDF)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoMatchingStudents.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, map[string]string{"grade": "once", "gender": "femenino", "stratum": "6"}, appErr.Details["filters"])
}

func TestBulkReportEmptyDetailsOmitUnconstrainedFields(t *testing.T) {
	records := &recordStoreStub{snapshot: &models.RecordSnapshot{}}
	svc := newReportFixture(records, nil)

	_, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{Grade: "once", Gender: "femenino"}, FormatPDF)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, map[string]string{"grade": "once", "gender": "femenino"}, appErr.Details["filters"])
}

func TestBulkReportRecordStoreFailure(t *testing.T) {
	records := &recordStoreStub{err: errors.New("connection reset")}
	svc := newReportFixture(records, nil)

	_, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{Grade: "once"}, FormatPDF)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExportFailed.Code, appErr.Code)
	assert.Equal(t, 502, appErr.Status)
	assert.Equal(t, map[string]string{"grade": "once"}, appErr.Details["filters"])
	assert.Contains(t, appErr.Details["cause"], "connection reset")
}

func TestBulkReportUnsupportedFormat(t *testing.T) {
	records := &recordStoreStub{snapshot: baseSnapshot()}
	svc := newReportFixture(records, nil)

	_, err := svc.GenerateBulk(context.Background(), adminClaims(), models.FilterSpec{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkReportPinsSchoolScopedActor(t *testing.T) {
	records := &recordStoreStub{snapshot: baseSnapshot()}
	svc := newReportFixture(records, nil)

	_, err := svc.GenerateBulk(context.Background(), schoolAdminClaims("sch-1"), models.FilterSpec{SchoolID: "sch-2"}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "sch-1", records.lastSchoolID)
}
