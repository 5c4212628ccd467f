package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/middleware"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/response"
)

// AnalyticsHandler exposes the aggregated analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	resolver  *service.FilterResolver
	metrics   *service.MetricsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, resolver *service.FilterResolver, metrics *service.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, resolver: resolver, metrics: metrics}
}

// Overview godoc
// @Summary Aggregated academic analytics
// @Tags Analytics
// @Produce json
// @Param schoolId query string false "School filter"
// @Param courseId query string false "Course filter"
// @Param grade query string false "Grade filter"
// @Param competencyId query string false "Competency filter"
// @Param minAge query int false "Minimum age"
// @Param maxAge query int false "Maximum age"
// @Param gender query string false "Gender filter"
// @Param stratum query string false "Socioeconomic stratum"
// @Param period query string false "Period window (all,1m,3m,6m,12m)"
// @Success 200 {object} response.Envelope
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var input service.FilterInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid filter payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims != nil && claims.Role == models.RoleSchoolAdmin && claims.SchoolID != "" {
		input.SchoolID = claims.SchoolID
	}

	spec, err := h.resolver.Resolve(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	overview, cacheHit, err := h.analytics.Overview(c.Request.Context(), claims.ScopeKey(), spec)
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
	response.JSON(c, http.StatusOK, overview, nil, meta)
}

// System godoc
// @Summary System instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
