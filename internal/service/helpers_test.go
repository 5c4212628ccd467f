package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/models"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/config"
	appErrors "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/errors"
)

// recordStoreStub serves a fixed snapshot and counts loads so tests can
// observe whether a request recomputed or hit the cache.
type recordStoreStub struct {
	snapshot     *models.RecordSnapshot
	err          error
	calls        int
	lastSchoolID string
}

func (s *recordStoreStub) Snapshot(ctx context.Context, schoolID string) (*models.RecordSnapshot, error) {
	s.calls++
	s.lastSchoolID = schoolID
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshot == nil {
		return &models.RecordSnapshot{}, nil
	}
	return s.snapshot, nil
}

// catalogStub implements both the name lookups and the course membership
// check.
type catalogStub struct {
	schools      map[string]string
	courses      map[string]string
	competencies map[string]string
	belongs      bool
	belongsErr   error
	belongsCalls int
}

func (s *catalogStub) SchoolNames(ctx context.Context) (map[string]string, error) {
	return s.schools, nil
}

func (s *catalogStub) CourseNames(ctx context.Context) (map[string]string, error) {
	return s.courses, nil
}

func (s *catalogStub) CompetencyNames(ctx context.Context) (map[string]string, error) {
	return s.competencies, nil
}

func (s *catalogStub) CourseBelongsToSchool(ctx context.Context, courseID, schoolID string) (bool, error) {
	s.belongsCalls++
	return s.belongs, s.belongsErr
}

// cacheRepoStub is an in-memory cache with an injectable clock so tests can
// cross the TTL boundary without sleeping.
type cacheRepoStub struct {
	entries map[string]cacheStubEntry
	now     func() time.Time
}

type cacheStubEntry struct {
	payload   []byte
	expiresAt time.Time
}

func newCacheRepoStub(now func() time.Time) *cacheRepoStub {
	return &cacheRepoStub{entries: make(map[string]cacheStubEntry), now: now}
}

func (r *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	entry, ok := r.entries[key]
	if !ok || r.now().After(entry.expiresAt) {
		delete(r.entries, key)
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(entry.payload, dest)
}

func (r *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = cacheStubEntry{payload: payload, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
		}
	}
	return nil
}

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		AttentionScore:    60,
		AttentionPassRate: 50,
		ImprovableScore:   70,
		GoodScore:         80,
		LowProgress:       40,
		LowStudyHours:     5,
		InactivityWindow:  14 * 24 * time.Hour,
	}
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		CacheTTL:        5 * time.Minute,
		DefaultPageSize: 20,
		PassingScore:    60,
	}
}

func intPtr(v int) *int { return &v }
