package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CatalogRepository exposes the read-only id → display-name lookups owned by
// the catalog service. The analytics API never writes to these tables.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SchoolNames returns the school id → name map.
func (r *CatalogRepository) SchoolNames(ctx context.Context) (map[string]string, error) {
	return r.nameMap(ctx, "SELECT id, name FROM schools")
}

// CourseNames returns the course id → title map.
func (r *CatalogRepository) CourseNames(ctx context.Context) (map[string]string, error) {
	return r.nameMap(ctx, "SELECT id, title AS name FROM courses")
}

// CompetencyNames returns the competency id → display name map.
func (r *CatalogRepository) CompetencyNames(ctx context.Context) (map[string]string, error) {
	return r.nameMap(ctx, "SELECT id, display_name AS name FROM competencies")
}

// CourseBelongsToSchool reports whether the course is part of the school's
// catalog. Used by the filter resolver to reject mismatched combinations.
func (r *CatalogRepository) CourseBelongsToSchool(ctx context.Context, courseID, schoolID string) (bool, error) {
	var count int
	query := "SELECT COUNT(1) FROM courses WHERE id = $1 AND school_id = $2"
	if err := r.db.GetContext(ctx, &count, query, courseID, schoolID); err != nil {
		return false, fmt.Errorf("query course school membership: %w", err)
	}
	return count > 0, nil
}

func (r *CatalogRepository) nameMap(ctx context.Context, query string) (map[string]string, error) {
	type row struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query catalog names: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, entry := range rows {
		names[entry.ID] = entry.Name
	}
	return names, nil
}
