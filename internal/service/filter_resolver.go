package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
)

// CourseCatalog is the catalog collaborator consulted when both a school and
// a course constraint arrive in the same request.
type CourseCatalog interface {
	CourseBelongsToSchool(ctx context.Context, courseID, schoolID string) (bool, error)
}

// FilterInput is the loose filter payload as it arrives on the wire. Every
// field is optional; "all" and "" both mean unconstrained.
type FilterInput struct {
	SchoolID     string `form:"schoolId" validate:"omitempty,max=64"`
	CourseID     string `form:"courseId" validate:"omitempty,max=64"`
	Grade        string `form:"grade" validate:"omitempty,max=32"`
	CompetencyID string `form:"competencyId" validate:"omitempty,max=64"`
	MinAge       string `form:"minAge" validate:"omitempty,numeric"`
	MaxAge       string `form:"maxAge" validate:"omitempty,numeric"`
	Gender       string `form:"gender" validate:"omitempty,max=32"`
	Stratum      string `form:"stratum" validate:"omitempty,max=8"`
	Period       string `form:"period" validate:"omitempty,max=8"`
}

// FilterResolver normalizes loose filter payloads into canonical FilterSpec
// values. Two requests that spell "unconstrained" differently resolve to the
// same spec and therefore the same cache key.
type FilterResolver struct {
	catalog  CourseCatalog
	validate *validator.Validate
}

// NewFilterResolver constructs a resolver around the catalog collaborator.
func NewFilterResolver(catalog CourseCatalog) *FilterResolver {
	return &FilterResolver{catalog: catalog, validate: validator.New()}
}

// Resolve validates and canonicalizes the input. Malformed ages and
// course/school mismatches fail with a validation error naming the offending
// field; everything else degrades to unconstrained.
func (r *FilterResolver) Resolve(ctx context.Context, input FilterInput) (models.FilterSpec, error) {
	if err := r.validate.Struct(input); err != nil {
		return models.FilterSpec{}, validationError("filter payload is malformed", map[string]interface{}{"cause": err.Error()})
	}

	spec := models.FilterSpec{
		SchoolID:     normalizeToken(input.SchoolID),
		CourseID:     normalizeToken(input.CourseID),
		Grade:        normalizeToken(input.Grade),
		CompetencyID: normalizeToken(input.CompetencyID),
		Gender:       normalizeToken(input.Gender),
		Stratum:      normalizeToken(input.Stratum),
		Period:       normalizePeriod(input.Period),
	}

	minAge, err := parseAge("minAge", input.MinAge)
	if err != nil {
		return models.FilterSpec{}, err
	}
	maxAge, err := parseAge("maxAge", input.MaxAge)
	if err != nil {
		return models.FilterSpec{}, err
	}
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		return models.FilterSpec{}, validationError("minAge must not exceed maxAge", map[string]interface{}{
			"minAge": *minAge,
			"maxAge": *maxAge,
		})
	}
	spec.MinAge = minAge
	spec.MaxAge = maxAge

	if spec.SchoolID != "" && spec.CourseID != "" && r.catalog != nil {
		ok, err := r.catalog.CourseBelongsToSchool(ctx, spec.CourseID, spec.SchoolID)
		if err != nil {
			return models.FilterSpec{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "catalog lookup failed")
		}
		if !ok {
			return models.FilterSpec{}, validationError("courseId does not belong to schoolId", map[string]interface{}{
				"courseId": spec.CourseID,
				"schoolId": spec.SchoolID,
			})
		}
	}

	return spec, nil
}

func normalizeToken(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "all") || strings.EqualFold(trimmed, "undefined") {
		return ""
	}
	return trimmed
}

// normalizePeriod maps unknown period tokens to the unbounded window rather
// than rejecting them; only the enumerated windows constrain the series.
func normalizePeriod(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.PeriodMonth:
		return models.PeriodMonth
	case models.PeriodQuarter:
		return models.PeriodQuarter
	case models.PeriodSemester:
		return models.PeriodSemester
	case models.PeriodYear:
		return models.PeriodYear
	default:
		return models.PeriodAll
	}
}

func parseAge(field, raw string) (*int, error) {
	normalized := normalizeToken(raw)
	if normalized == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(normalized)
	if err != nil {
		return nil, validationError(fmt.Sprintf("%s must be numeric", field), map[string]interface{}{field: raw})
	}
	if age < 0 {
		return nil, validationError(fmt.Sprintf("%s must not be negative", field), map[string]interface{}{field: age})
	}
	return &age, nil
}

func validationError(message string, details map[string]interface{}) *appErrors.Error {
	err := appErrors.Clone(appErrors.ErrValidation, message)
	return appErrors.WithDetails(err, details)
}
