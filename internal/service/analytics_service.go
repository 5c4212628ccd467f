package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
)

// RecordStore loads the read-only record snapshot the engine aggregates.
type RecordStore interface {
	Snapshot(ctx context.Context, schoolID string) (*models.RecordSnapshot, error)
}

// NameCatalog provides the id → display-name lookups owned by the catalog
// collaborator.
type NameCatalog interface {
	SchoolNames(ctx context.Context) (map[string]string, error)
	CourseNames(ctx context.Context) (map[string]string, error)
	CompetencyNames(ctx context.Context) (map[string]string, error)
}

// AnalyticsService orchestrates the overview query: cache lookup, snapshot
// load, aggregation, name annotation and cache write-back. Concurrent
// identical requests collapse onto one computation via singleflight.
type AnalyticsService struct {
	records RecordStore
	catalog NameCatalog
	engine  *AggregationService
	cache   *CacheService
	group   singleflight.Group
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs the analytics orchestrator.
func NewAnalyticsService(records RecordStore, catalog NameCatalog, engine *AggregationService, cache *CacheService, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		records: records,
		catalog: catalog,
		engine:  engine,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Overview returns the aggregated analytics for the spec, reporting whether
// the payload came from cache. Emptiness degrades to zero-valued structures.
func (s *AnalyticsService) Overview(ctx context.Context, scope string, spec models.FilterSpec) (*models.Overview, bool, error) {
	key := overviewCacheKey(scope, spec)

	var cached models.Overview
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		snapshot, err := s.records.Snapshot(ctx, spec.SchoolID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record store unavailable")
		}

		overview := s.engine.Aggregate(snapshot, spec, s.now())
		AnnotateOverview(overview, loadCatalogNames(ctx, s.catalog, s.logger))

		if err := s.cache.Set(ctx, key, overview, 0); err != nil && s.logger != nil {
			s.logger.Warn("overview cache write failed", zap.String("key", key), zap.Error(err))
		}
		return overview, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.(*models.Overview), false, nil
}

// Invalidate drops every cached analytics payload. Ingest-side collaborators
// call this after loading new records.
func (s *AnalyticsService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, "analytics:*")
}

func overviewCacheKey(scope string, spec models.FilterSpec) string {
	var builder strings.Builder
	builder.WriteString("analytics:overview:")
	builder.WriteString(scope)
	builder.WriteByte(':')
	builder.WriteString(spec.Hash())
	return builder.String()
}
