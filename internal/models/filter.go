package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Period tokens accepted by the filter resolver. PeriodAll means the series
// spans every observed month.
const (
	PeriodAll      = "all"
	PeriodMonth    = "1m"
	PeriodQuarter  = "3m"
	PeriodSemester = "6m"
	PeriodYear     = "12m"
)

// FilterSpec is the canonical, immutable filter combination applied by the
// aggregation engine. Zero values mean "unconstrained"; the resolver maps
// every loose sentinel ("all", "", absent) onto them so semantically equal
// requests hash identically.
type FilterSpec struct {
	SchoolID     string `json:"schoolId,omitempty"`
	CourseID     string `json:"courseId,omitempty"`
	Grade        string `json:"grade,omitempty"`
	CompetencyID string `json:"competencyId,omitempty"`
	MinAge       *int   `json:"minAge,omitempty"`
	MaxAge       *int   `json:"maxAge,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Stratum      string `json:"stratum,omitempty"`
	Period       string `json:"period,omitempty"`
}

// Hash returns a short stable digest of the spec, independent of how the
// original request spelled its unconstrained fields.
func (f FilterSpec) Hash() string {
	var builder strings.Builder
	writeField := func(key, value string) {
		builder.WriteString(key)
		builder.WriteByte('=')
		builder.WriteString(value)
		builder.WriteByte(';')
	}
	writeField("school", f.SchoolID)
	writeField("course", f.CourseID)
	writeField("grade", f.Grade)
	writeField("competency", f.CompetencyID)
	writeField("minAge", formatAge(f.MinAge))
	writeField("maxAge", formatAge(f.MaxAge))
	writeField("gender", f.Gender)
	writeField("stratum", f.Stratum)
	writeField("period", f.NormalizedPeriod())

	sum := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(sum[:])[:16]
}

// NormalizedPeriod returns the canonical period token, defaulting to all.
func (f FilterSpec) NormalizedPeriod() string {
	if f.Period == "" {
		return PeriodAll
	}
	return f.Period
}

// PeriodMonths maps the period token to a month-window size; 0 means
// unbounded.
func (f FilterSpec) PeriodMonths() int {
	switch f.NormalizedPeriod() {
	case PeriodMonth:
		return 1
	case PeriodQuarter:
		return 3
	case PeriodSemester:
		return 6
	case PeriodYear:
		return 12
	default:
		return 0
	}
}

// ActiveFilters reports only the constrained fields, keyed by their public
// request names. The bulk report pipeline echoes these back when nothing
// matches so the caller can suggest relaxing them.
func (f FilterSpec) ActiveFilters() map[string]string {
	active := make(map[string]string)
	if f.SchoolID != "" {
		active["schoolId"] = f.SchoolID
	}
	if f.CourseID != "" {
		active["courseId"] = f.CourseID
	}
	if f.Grade != "" {
		active["grade"] = f.Grade
	}
	if f.CompetencyID != "" {
		active["competencyId"] = f.CompetencyID
	}
	if f.MinAge != nil {
		active["minAge"] = fmt.Sprintf("%d", *f.MinAge)
	}
	if f.MaxAge != nil {
		active["maxAge"] = fmt.Sprintf("%d", *f.MaxAge)
	}
	if f.Gender != "" {
		active["gender"] = f.Gender
	}
	if f.Stratum != "" {
		active["stratum"] = f.Stratum
	}
	if period := f.NormalizedPeriod(); period != PeriodAll {
		active["period"] = period
	}
	return active
}

// IsUnconstrained reports whether the spec applies no filtering at all.
func (f FilterSpec) IsUnconstrained() bool {
	return len(f.ActiveFilters()) == 0
}

func formatAge(age *int) string {
	if age == nil {
		return ""
	}
	return fmt.Sprintf("%d", *age)
}
