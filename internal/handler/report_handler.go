package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/response"
)

// ReportHandler exposes the bulk report pipeline.
type ReportHandler struct {
	reports  *service.ReportService
	resolver *service.FilterResolver
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports *service.ReportService, resolver *service.FilterResolver) *ReportHandler {
	return &ReportHandler{reports: reports, resolver: resolver}
}

type bulkReportRequest struct {
	SchoolID     string `json:"schoolId"`
	CourseID     string `json:"courseId"`
	Grade        string `json:"grade"`
	CompetencyID string `json:"competencyId"`
	MinAge       string `json:"minAge"`
	MaxAge       string `json:"maxAge"`
	Gender       string `json:"gender"`
	Stratum      string `json:"stratum"`
	Period       string `json:"period"`
	Format       string `json:"format"`
}

// Bulk godoc
// @Summary Bulk student report
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Param request body bulkReportRequest true "Filter payload"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /reports/bulk [post]
func (h *ReportHandler) Bulk(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	var req bulkReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report payload"))
		return
	}

	spec, err := h.resolver.Resolve(c.Request.Context(), service.FilterInput{
		SchoolID:     req.SchoolID,
		CourseID:     req.CourseID,
		Grade:        req.Grade,
		CompetencyID: req.CompetencyID,
		MinAge:       req.MinAge,
		MaxAge:       req.MaxAge,
		Gender:       req.Gender,
		Stratum:      req.Stratum,
		Period:       req.Period,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reports.GenerateBulk(c.Request.Context(), claimsFromContext(c), spec, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
