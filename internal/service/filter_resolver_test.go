package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
)

func TestFilterResolverNormalizesSentinels(t *testing.T) {
	resolver := NewFilterResolver(nil)

	spec, err := resolver.Resolve(context.Background(), FilterInput{
		SchoolID: "all",
		Grade:    "",
		Gender:   "ALL",
		Period:   "",
	})
	require.NoError(t, err)
	assert.True(t, spec.IsUnconstrained())

	other, err := resolver.Resolve(context.Background(), FilterInput{})
	require.NoError(t, err)
	assert.Equal(t, spec.Hash(), other.Hash())
}

func TestFilterResolverHashIndependentOfSpelling(t *testing.T) {
	resolver := NewFilterResolver(nil)

	a, err := resolver.Resolve(context.Background(), FilterInput{Grade: "once", Gender: "femenino", Period: "all"})
	require.NoError(t, err)
	b, err := resolver.Resolve(context.Background(), FilterInput{Grade: "once", Gender: "femenino"})
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash())

	c, err := resolver.Resolve(context.Background(), FilterInput{Grade: "decimo", Gender: "femenino"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestFilterResolverRejectsNonNumericAge(t *testing.T) {
	resolver := NewFilterResolver(nil)

	_, err := resolver.Resolve(context.Background(), FilterInput{MinAge: "quince"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestFilterResolverRejectsInvertedAgeRange(t *testing.T) {
	resolver := NewFilterResolver(nil)

	_, err := resolver.Resolve(context.Background(), FilterInput{MinAge: "18", MaxAge: "15"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 18, appErr.Details["minAge"])
}

func TestFilterResolverParsesAgeRange(t *testing.T) {
	resolver := NewFilterResolver(nil)

	spec, err := resolver.Resolve(context.Background(), FilterInput{MinAge: "14", MaxAge: "17"})
	require.NoError(t, err)
	require.NotNil(t, spec.MinAge)
	require.NotNil(t, spec.MaxAge)
	assert.Equal(t, 14, *spec.MinAge)
	assert.Equal(t, 17, *spec.MaxAge)
}

func TestFilterResolverChecksCourseMembership(t *testing.T) {
	catalog := &catalogStub{belongs: false}
	resolver := NewFilterResolver(catalog)

	_, err := resolver.Resolve(context.Background(), FilterInput{SchoolID: "sch-1", CourseID: "crs-9"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 1, catalog.belongsCalls)

	catalog.belongs = true
	spec, err := resolver.Resolve(context.Background(), FilterInput{SchoolID: "sch-1", CourseID: "crs-1"})
	require.NoError(t, err)
	assert.Equal(t, "crs-1", spec.CourseID)
}

func TestFilterResolverSkipsMembershipWhenSchoolUnset(t *testing.T) {
	catalog := &catalogStub{belongs: false}
	resolver := NewFilterResolver(catalog)

	spec, err := resolver.Resolve(context.Background(), FilterInput{CourseID: "crs-1"})
	require.NoError(t, err)
	assert.Equal(t, "crs-1", spec.CourseID)
	assert.Zero(t, catalog.belongsCalls)
}

func TestFilterResolverCatalogFailure(t *testing.T) {
	catalog := &catalogStub{belongsErr: errors.New("catalog down")}
	resolver := NewFilterResolver(catalog)

	_, err := resolver.Resolve(context.Background(), FilterInput{SchoolID: "sch-1", CourseID: "crs-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestFilterResolverUnknownPeriodIsUnbounded(t *testing.T) {
	resolver := NewFilterResolver(nil)

	spec, err := resolver.Resolve(context.Background(), FilterInput{Period: "2y"})
	require.NoError(t, err)
	assert.Equal(t, "all", spec.NormalizedPeriod())

	spec, err = resolver.Resolve(context.Background(), FilterInput{Period: "3m"})
	require.NoError(t, err)
	assert.Equal(t, 3, spec.PeriodMonths())
}
