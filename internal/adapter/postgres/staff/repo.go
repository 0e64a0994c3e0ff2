// Package staff implements the Staff repository using PostgreSQL.
package staff

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

// Repo provides staff persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new staff repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type staffRow struct {
	ID         uuid.UUID `db:"id"`
	FullName   string    `db:"full_name"`
	Email      string    `db:"email"`
	Position   string    `db:"position"`
	Department *string   `db:"department"`
	Status     string    `db:"status"`
	Tags       []string  `db:"tags"`
	Longitude  *float64  `db:"longitude"`
	Latitude   *float64  `db:"latitude"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type nearRow struct {
	staffRow
	DistanceMeters float64 `db:"distance_meters"`
}

const columns = `id, full_name, email, position, department, status, tags,
	longitude, latitude, created_at, updated_at`

const geographyExpr = `ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography`

const createSQL = `
INSERT INTO staff (id, full_name, email, position, department, status, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + columns

// Create inserts a new staff member. A duplicate email surfaces as
// domain.ErrAlreadyExists via the unique constraint.
func (r *Repo) Create(ctx context.Context, member *domain.Staff) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row staffRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		member.ID, member.FullName, member.Email, member.Position,
		member.Department, member.Status, member.Tags,
	)
	if err != nil {
		return nil, postgres.MapError(err, "staff", member.ID.String())
	}

	return toDomain(row), nil
}

// Update applies a partial update and returns the new row.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.StaffUpdateParams) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	update := psql.Update("staff").Set("updated_at", sq.Expr("now()"))
	if params.FullName != nil {
		update = update.Set("full_name", *params.FullName)
	}
	if params.Email != nil {
		update = update.Set("email", *params.Email)
	}
	if params.Position != nil {
		update = update.Set("position", *params.Position)
	}
	if params.Department != nil {
		update = update.Set("department", *params.Department)
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
	}
	if params.Tags != nil {
		update = update.Set("tags", params.Tags)
	}

	querySQL, args, err := update.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build staff update: %w", err)
	}

	var row staffRow
	if err := pgxscan.Get(ctx, q, &row, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "staff", id.String())
	}

	return toDomain(row), nil
}

const setLocationSQL = `
UPDATE staff
SET longitude = $2, latitude = $3, updated_at = now()
WHERE id = $1
RETURNING ` + columns

// SetLocation overwrites the staff member's stored point.
func (r *Repo) SetLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row staffRow
	if err := pgxscan.Get(ctx, q, &row, setLocationSQL, id, point.Longitude, point.Latitude); err != nil {
		return nil, postgres.MapError(err, "staff", id.String())
	}

	return toDomain(row), nil
}

const deleteSQL = `DELETE FROM staff WHERE id = $1`

// Delete removes the staff member.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "staff", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("staff %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

const getSQL = `SELECT ` + columns + ` FROM staff WHERE id = $1`

// GetByID returns a staff member by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row staffRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, id); err != nil {
		return nil, postgres.MapError(err, "staff", id.String())
	}

	return toDomain(row), nil
}

// Filter defines search and pagination parameters for listing staff.
type Filter struct {
	// Search performs ILIKE '%...%' against full_name, email and position.
	Search *string
	// Status restricts to one employment status.
	Status *domain.StaffStatus
	// Department restricts to one department.
	Department *string

	Limit  int
	Offset int
}

func (f Filter) predicate() sq.And {
	var pred sq.And
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"full_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"position": pattern},
		})
	}
	if f.Status != nil {
		pred = append(pred, sq.Eq{"status": *f.Status})
	}
	if f.Department != nil {
		pred = append(pred, sq.Eq{"department": *f.Department})
	}
	return pred
}

// List returns one page of staff plus the total count under the same filter.
func (r *Repo) List(ctx context.Context, filter Filter) ([]*domain.Staff, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("staff")
	if pred := filter.predicate(); len(pred) > 0 {
		base = base.Where(pred)
	}

	pageSQL, pageArgs, err := base.
		Columns(columns).
		OrderBy("full_name ASC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build staff list query: %w", err)
	}

	var rows []staffRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "staff", "list")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build staff count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "staff", "count")
	}

	members := make([]*domain.Staff, len(rows))
	for i, row := range rows {
		members[i] = toDomain(row)
	}

	return members, total, nil
}

const nearSQL = `
SELECT ` + columns + `,
       ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
FROM staff
WHERE longitude IS NOT NULL
  AND latitude IS NOT NULL
  AND ST_DWithin(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
  AND ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) < $3
ORDER BY distance_meters ASC, id ASC`

// Near returns all staff with a stored point strictly within the radius,
// ordered by ascending geodesic distance.
func (r *Repo) Near(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []nearRow
	err := pgxscan.Select(ctx, q, &rows, nearSQL, query.Longitude, query.Latitude, query.RadiusMeters)
	if err != nil {
		return nil, postgres.MapError(err, "staff", "near")
	}

	matches := make([]domain.StaffDistance, len(rows))
	for i, row := range rows {
		matches[i] = domain.StaffDistance{
			Staff:          toDomain(row.staffRow),
			DistanceMeters: row.DistanceMeters,
		}
	}

	return matches, nil
}

// Search returns staff matching the free-text term, for cross-entity search.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*domain.Staff, error) {
	members, _, err := r.List(ctx, Filter{Search: &term, Limit: limit})
	return members, err
}

func toDomain(row staffRow) *domain.Staff {
	member := &domain.Staff{
		ID:         row.ID,
		FullName:   row.FullName,
		Email:      row.Email,
		Position:   row.Position,
		Department: row.Department,
		Status:     domain.StaffStatus(row.Status),
		Tags:       row.Tags,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Longitude != nil && row.Latitude != nil {
		member.Location = &domain.GeoPoint{Longitude: *row.Longitude, Latitude: *row.Latitude}
	}
	return member
}
