package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/middleware"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
)

func newStudentMetricsHandler(records *recordStoreStub) *StudentMetricsHandler {
	catalog := &catalogStub{schools: map[string]string{"sch-1": "Colegio San Mateo"}}
	svc := service.NewStudentMetricsService(
		records,
		catalog,
		service.NewAggregationService(testAnalyticsConfig()),
		service.NewRiskClassifier(testRiskConfig()),
		disabledCache(),
		zap.NewNop(),
		20,
	)
	return NewStudentMetricsHandler(svc)
}

func TestStudentMetricsHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordStoreStub{snapshot: testSnapshot()}
	handler := newStudentMetricsHandler(records)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/students", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Nil(t, envelope.Error)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.Page)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)

	var students []models.StudentMetric
	require.NoError(t, json.Unmarshal(envelope.Data, &students))
	require.Len(t, students, 2)
	assert.Equal(t, "st-1", students[0].StudentID)
	assert.NotEmpty(t, students[0].Status)
}

func TestStudentMetricsHandlerListStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordStoreStub{snapshot: testSnapshot()}
	handler := newStudentMetricsHandler(records)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/students?status=requiere_atencion", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var students []models.StudentMetric
	require.NoError(t, json.Unmarshal(envelope.Data, &students))
	for _, student := range students {
		assert.Equal(t, models.StatusAttention, student.Status)
	}
}

func TestStudentMetricsHandlerListForcesActorSchool(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordStoreStub{snapshot: testSnapshot()}
	handler := newStudentMetricsHandler(records)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/students?schoolId=sch-2", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-2", Role: models.RoleSchoolAdmin, SchoolID: "sch-1"})

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sch-1", records.lastSchoolID)
}

func TestStudentMetricsHandlerListAllSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	records := &recordStoreStub{snapshot: testSnapshot()}
	handler := newStudentMetricsHandler(records)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/students?schoolId=all", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", records.lastSchoolID)
}
