// Package asset implements the Asset repository using PostgreSQL.
// Proximity queries delegate geodesic distance to PostGIS geography
// operators, so distances are computed on the spheroid, not a flat plane.
package asset

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/assetbase/backend/internal/adapter/postgres"
	"github.com/assetbase/backend/internal/domain"
)

// Repo provides asset persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new asset repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type assetRow struct {
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Category    string     `db:"category"`
	Status      string     `db:"status"`
	Tags        []string   `db:"tags"`
	CustodianID *uuid.UUID `db:"custodian_id"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	Longitude   *float64   `db:"longitude"`
	Latitude    *float64   `db:"latitude"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// nearRow adds the PostGIS-computed geodesic distance.
type nearRow struct {
	assetRow
	DistanceMeters float64 `db:"distance_meters"`
}

const columns = `public_id, name, description, category, status, tags,
	custodian_id, created_by, longitude, latitude, created_at, updated_at`

// geographyExpr turns the stored coordinate pair into a PostGIS geography
// point; the same expression backs the functional GIST index from the
// migrations.
const geographyExpr = `ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO assets (public_id, name, description, category, status, tags, custodian_id, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + columns

// Create inserts a new asset and returns the persisted row.
func (r *Repo) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row assetRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		asset.PublicID, asset.Name, asset.Description, asset.Category,
		asset.Status, asset.Tags, asset.CustodianID, asset.CreatedBy,
	)
	if err != nil {
		return nil, postgres.MapError(err, "asset", asset.PublicID)
	}

	return toDomain(row), nil
}

// Update applies a partial update and returns the new row.
// Returns domain.ErrNotFound for an unknown public id.
func (r *Repo) Update(ctx context.Context, publicID string, params domain.AssetUpdateParams) (*domain.Asset, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	update := psql.Update("assets").Set("updated_at", sq.Expr("now()"))
	if params.Name != nil {
		update = update.Set("name", *params.Name)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Category != nil {
		update = update.Set("category", *params.Category)
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
	}
	if params.Tags != nil {
		update = update.Set("tags", params.Tags)
	}
	if params.CustodianID != nil {
		update = update.Set("custodian_id", *params.CustodianID)
	}

	querySQL, args, err := update.
		Where(sq.Eq{"public_id": publicID}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build asset update: %w", err)
	}

	var row assetRow
	if err := pgxscan.Get(ctx, q, &row, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "asset", publicID)
	}

	return toDomain(row), nil
}

const setLocationSQL = `
UPDATE assets
SET longitude = $2, latitude = $3, updated_at = now()
WHERE public_id = $1
RETURNING ` + columns

// SetLocation overwrites the asset's stored point. Only the latest point is
// retained; there is no location history.
func (r *Repo) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row assetRow
	if err := pgxscan.Get(ctx, q, &row, setLocationSQL, publicID, point.Longitude, point.Latitude); err != nil {
		return nil, postgres.MapError(err, "asset", publicID)
	}

	return toDomain(row), nil
}

const deleteSQL = `DELETE FROM assets WHERE public_id = $1`

// Delete removes the asset. Returns domain.ErrNotFound for an unknown id.
func (r *Repo) Delete(ctx context.Context, publicID string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteSQL, publicID)
	if err != nil {
		return postgres.MapError(err, "asset", publicID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", publicID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getSQL = `SELECT ` + columns + ` FROM assets WHERE public_id = $1`

// GetByID returns an asset by public id.
func (r *Repo) GetByID(ctx context.Context, publicID string) (*domain.Asset, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row assetRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, publicID); err != nil {
		return nil, postgres.MapError(err, "asset", publicID)
	}

	return toDomain(row), nil
}

// Filter defines search and pagination parameters for listing assets.
type Filter struct {
	// Search performs ILIKE '%...%' against name and description.
	Search *string
	// Status restricts to one lifecycle status.
	Status *domain.AssetStatus
	// Category restricts to one category.
	Category *string

	Limit  int
	Offset int
}

func (f Filter) predicate() sq.And {
	var pred sq.And
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if f.Status != nil {
		pred = append(pred, sq.Eq{"status": *f.Status})
	}
	if f.Category != nil {
		pred = append(pred, sq.Eq{"category": *f.Category})
	}
	return pred
}

// List returns one page of assets plus the total count under the same
// filter predicate, so offset math stays consistent for callers.
func (r *Repo) List(ctx context.Context, filter Filter) ([]*domain.Asset, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("assets")
	if pred := filter.predicate(); len(pred) > 0 {
		base = base.Where(pred)
	}

	pageSQL, pageArgs, err := base.
		Columns(columns).
		OrderBy("public_id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build asset list query: %w", err)
	}

	var rows []assetRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "asset", "list")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build asset count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "asset", "count")
	}

	assets := make([]*domain.Asset, len(rows))
	for i, row := range rows {
		assets[i] = toDomain(row)
	}

	return assets, total, nil
}

// Near relies on PostGIS for the geodesic distance; the strict < $3 bound
// keeps entities exactly at the radius out, matching the query contract.
// ST_DWithin does the index-assisted prefilter.
const nearSQL = `
SELECT ` + columns + `,
       ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
FROM assets
WHERE longitude IS NOT NULL
  AND latitude IS NOT NULL
  AND ST_DWithin(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
  AND ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) < $3
ORDER BY distance_meters ASC, public_id ASC`

// Near returns all assets with a stored point strictly within the radius,
// ordered by ascending geodesic distance (ties broken by public id). Assets
// without a point are never returned.
func (r *Repo) Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []nearRow
	err := pgxscan.Select(ctx, q, &rows, nearSQL, query.Longitude, query.Latitude, query.RadiusMeters)
	if err != nil {
		return nil, postgres.MapError(err, "asset", "near")
	}

	matches := make([]domain.AssetDistance, len(rows))
	for i, row := range rows {
		matches[i] = domain.AssetDistance{
			Asset:          toDomain(row.assetRow),
			DistanceMeters: row.DistanceMeters,
		}
	}

	return matches, nil
}

// Search returns assets matching the free-text term, for cross-entity search.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*domain.Asset, error) {
	assets, _, err := r.List(ctx, Filter{Search: &term, Limit: limit})
	return assets, err
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomain(row assetRow) *domain.Asset {
	asset := &domain.Asset{
		PublicID:    row.PublicID,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		Status:      domain.AssetStatus(row.Status),
		Tags:        row.Tags,
		CustodianID: row.CustodianID,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Longitude != nil && row.Latitude != nil {
		asset.Location = &domain.GeoPoint{Longitude: *row.Longitude, Latitude: *row.Latitude}
	}
	return asset
}
