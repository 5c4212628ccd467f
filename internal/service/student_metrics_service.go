package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/pagination"
)

// StudentListQuery carries the list parameters after handler-level parsing.
type StudentListQuery struct {
	SchoolID   string
	Status     string
	AtRiskOnly bool
	Page       int
	PageSize   int
}

// StudentMetricsService computes the per-student rollup list with risk
// classification. The full list is cached per (actor, school-or-all); status
// filtering and pagination run on the cached list so every page within the
// TTL observes the same classification.
type StudentMetricsService struct {
	records         RecordStore
	catalog         NameCatalog
	engine          *AggregationService
	classifier      *RiskClassifier
	cache           *CacheService
	group           singleflight.Group
	logger          *zap.Logger
	now             func() time.Time
	defaultPageSize int
}

// NewStudentMetricsService constructs the student metrics service.
func NewStudentMetricsService(records RecordStore, catalog NameCatalog, engine *AggregationService, classifier *RiskClassifier, cache *CacheService, logger *zap.Logger, defaultPageSize int) *StudentMetricsService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &StudentMetricsService{
		records:         records,
		catalog:         catalog,
		engine:          engine,
		classifier:      classifier,
		cache:           cache,
		logger:          logger,
		now:             time.Now,
		defaultPageSize: defaultPageSize,
	}
}

// List returns one page of classified student metrics, reporting whether the
// underlying list came from cache. School-scoped actors are always pinned to
// their own school regardless of the requested scope.
func (s *StudentMetricsService) List(ctx context.Context, claims *models.JWTClaims, query StudentListQuery) (pagination.Result[models.StudentMetric], bool, error) {
	schoolID := effectiveSchoolScope(claims, query.SchoolID)

	metrics, hit, err := s.classifiedMetrics(ctx, claims, schoolID)
	if err != nil {
		return pagination.Result[models.StudentMetric]{}, false, err
	}

	filtered := metrics
	if query.Status != "" || query.AtRiskOnly {
		filtered = make([]models.StudentMetric, 0, len(metrics))
		for _, metric := range metrics {
			if query.Status != "" && string(metric.Status) != query.Status {
				continue
			}
			if query.AtRiskOnly && !metric.AtRisk() {
				continue
			}
			filtered = append(filtered, metric)
		}
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	return pagination.Page(filtered, query.Page, pageSize), hit, nil
}

func (s *StudentMetricsService) classifiedMetrics(ctx context.Context, claims *models.JWTClaims, schoolID string) ([]models.StudentMetric, bool, error) {
	key := studentMetricsCacheKey(claims.ScopeKey(), schoolID)

	var cached []models.StudentMetric
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		snapshot, err := s.records.Snapshot(ctx, schoolID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record store unavailable")
		}

		spec := models.FilterSpec{SchoolID: schoolID}
		metrics := s.engine.StudentRollups(snapshot, spec, s.now())

		names := loadCatalogNames(ctx, s.catalog, s.logger)
		now := s.now()
		for i := range metrics {
			metrics[i].Status, metrics[i].RiskFactors = s.classifier.Classify(metrics[i], now)
			metrics[i].SchoolName = displayName(names.Schools, metrics[i].SchoolID)
		}

		if err := s.cache.Set(ctx, key, metrics, 0); err != nil && s.logger != nil {
			s.logger.Warn("student metrics cache write failed", zap.String("key", key), zap.Error(err))
		}
		return metrics, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.([]models.StudentMetric), false, nil
}

func effectiveSchoolScope(claims *models.JWTClaims, requested string) string {
	if claims != nil && claims.Role == models.RoleSchoolAdmin && claims.SchoolID != "" {
		return claims.SchoolID
	}
	return requested
}

func studentMetricsCacheKey(scope, schoolID string) string {
	if schoolID == "" {
		schoolID = "all"
	}
	var builder strings.Builder
	builder.WriteString("analytics:students:")
	builder.WriteString(scope)
	builder.WriteByte(':')
	builder.WriteString(schoolID)
	return builder.String()
}
