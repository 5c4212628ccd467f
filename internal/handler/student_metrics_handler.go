package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/middleware"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/response"
)

// StudentMetricsHandler exposes the classified per-student metrics listing.
type StudentMetricsHandler struct {
	students *service.StudentMetricsService
}

// NewStudentMetricsHandler constructs the handler.
func NewStudentMetricsHandler(students *service.StudentMetricsService) *StudentMetricsHandler {
	return &StudentMetricsHandler{students: students}
}

// List godoc
// @Summary Per-student metrics with risk classification
// @Tags Analytics
// @Produce json
// @Param schoolId query string false "School scope (forced for school-scoped actors)"
// @Param status query string false "Status filter (excelente,bueno,mejorable,requiere_atencion,sin_datos)"
// @Param atRisk query bool false "Only at-risk students"
// @Param page query int false "1-based page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /analytics/students [get]
func (h *StudentMetricsHandler) List(c *gin.Context) {
	if h.students == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	schoolID := strings.TrimSpace(c.Query("schoolId"))
	if strings.EqualFold(schoolID, "all") {
		schoolID = ""
	}

	query := service.StudentListQuery{
		SchoolID:   schoolID,
		Status:     strings.TrimSpace(c.Query("status")),
		AtRiskOnly: strings.EqualFold(c.Query("atRisk"), "true"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "pageSize", 0),
	}

	start := time.Now()
	result, cacheHit, err := h.students.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()

	pageInfo := &models.Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
	response.JSON(c, http.StatusOK, result.Slice, pageInfo, meta)
}
