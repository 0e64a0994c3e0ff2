// Package workorder implements the WorkOrder repository using PostgreSQL.
package workorder

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

// Repo provides work order persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new work order repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type workOrderRow struct {
	PublicID    string     `db:"public_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Priority    string     `db:"priority"`
	Status      string     `db:"status"`
	AssetID     *string    `db:"asset_id"`
	AssigneeID  *uuid.UUID `db:"assignee_id"`
	DueDate     *time.Time `db:"due_date"`
	Tags        []string   `db:"tags"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	Longitude   *float64   `db:"longitude"`
	Latitude    *float64   `db:"latitude"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type nearRow struct {
	workOrderRow
	DistanceMeters float64 `db:"distance_meters"`
}

const columns = `public_id, title, description, priority, status, asset_id,
	assignee_id, due_date, tags, created_by, longitude, latitude, created_at, updated_at`

const geographyExpr = `ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography`

const createSQL = `
INSERT INTO work_orders (public_id, title, description, priority, status, asset_id, assignee_id, due_date, tags, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + columns

// Create inserts a new work order. A dangling asset reference surfaces as
// domain.ErrNotFound via the foreign key.
func (r *Repo) Create(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workOrderRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		order.PublicID, order.Title, order.Description, order.Priority,
		order.Status, order.AssetID, order.AssigneeID, order.DueDate,
		order.Tags, order.CreatedBy,
	)
	if err != nil {
		return nil, postgres.MapError(err, "work order", order.PublicID)
	}

	return toDomain(row), nil
}

// Update applies a partial update and returns the new row.
func (r *Repo) Update(ctx context.Context, publicID string, params domain.WorkOrderUpdateParams) (*domain.WorkOrder, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	update := psql.Update("work_orders").Set("updated_at", sq.Expr("now()"))
	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Priority != nil {
		update = update.Set("priority", *params.Priority)
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
	}
	if params.AssetID != nil {
		update = update.Set("asset_id", *params.AssetID)
	}
	if params.AssigneeID != nil {
		update = update.Set("assignee_id", *params.AssigneeID)
	}
	if params.DueDate != nil {
		update = update.Set("due_date", *params.DueDate)
	}
	if params.Tags != nil {
		update = update.Set("tags", params.Tags)
	}

	querySQL, args, err := update.
		Where(sq.Eq{"public_id": publicID}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build work order update: %w", err)
	}

	var row workOrderRow
	if err := pgxscan.Get(ctx, q, &row, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "work order", publicID)
	}

	return toDomain(row), nil
}

const setLocationSQL = `
UPDATE work_orders
SET longitude = $2, latitude = $3, updated_at = now()
WHERE public_id = $1
RETURNING ` + columns

// SetLocation overwrites the work order's stored point.
func (r *Repo) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.WorkOrder, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workOrderRow
	if err := pgxscan.Get(ctx, q, &row, setLocationSQL, publicID, point.Longitude, point.Latitude); err != nil {
		return nil, postgres.MapError(err, "work order", publicID)
	}

	return toDomain(row), nil
}

const deleteSQL = `DELETE FROM work_orders WHERE public_id = $1`

// Delete removes the work order.
func (r *Repo) Delete(ctx context.Context, publicID string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteSQL, publicID)
	if err != nil {
		return postgres.MapError(err, "work order", publicID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("work order %s: %w", publicID, domain.ErrNotFound)
	}

	return nil
}

const getSQL = `SELECT ` + columns + ` FROM work_orders WHERE public_id = $1`

// GetByID returns a work order by public id.
func (r *Repo) GetByID(ctx context.Context, publicID string) (*domain.WorkOrder, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workOrderRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, publicID); err != nil {
		return nil, postgres.MapError(err, "work order", publicID)
	}

	return toDomain(row), nil
}

// Filter defines search and pagination parameters for listing work orders.
type Filter struct {
	Search     *string
	Status     *domain.WorkOrderStatus
	Priority   *domain.WorkOrderPriority
	AssetID    *string
	AssigneeID *uuid.UUID

	Limit  int
	Offset int
}

func (f Filter) predicate() sq.And {
	var pred sq.And
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if f.Status != nil {
		pred = append(pred, sq.Eq{"status": *f.Status})
	}
	if f.Priority != nil {
		pred = append(pred, sq.Eq{"priority": *f.Priority})
	}
	if f.AssetID != nil {
		pred = append(pred, sq.Eq{"asset_id": *f.AssetID})
	}
	if f.AssigneeID != nil {
		pred = append(pred, sq.Eq{"assignee_id": *f.AssigneeID})
	}
	return pred
}

// List returns one page of work orders plus the total count under the same
// filter.
func (r *Repo) List(ctx context.Context, filter Filter) ([]*domain.WorkOrder, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("work_orders")
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
		return nil, 0, fmt.Errorf("build work order list query: %w", err)
	}

	var rows []workOrderRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "work order", "list")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build work order count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "work order", "count")
	}

	orders := make([]*domain.WorkOrder, len(rows))
	for i, row := range rows {
		orders[i] = toDomain(row)
	}

	return orders, total, nil
}

const nearSQL = `
SELECT ` + columns + `,
       ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
FROM work_orders
WHERE longitude IS NOT NULL
  AND latitude IS NOT NULL
  AND ST_DWithin(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
  AND ST_Distance(` + geographyExpr + `, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) < $3
ORDER BY distance_meters ASC, public_id ASC`

// Near returns all work orders with a stored point strictly within the
// radius, ordered by ascending geodesic distance.
func (r *Repo) Near(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []nearRow
	err := pgxscan.Select(ctx, q, &rows, nearSQL, query.Longitude, query.Latitude, query.RadiusMeters)
	if err != nil {
		return nil, postgres.MapError(err, "work order", "near")
	}

	matches := make([]domain.WorkOrderDistance, len(rows))
	for i, row := range rows {
		matches[i] = domain.WorkOrderDistance{
			WorkOrder:      toDomain(row.workOrderRow),
			DistanceMeters: row.DistanceMeters,
		}
	}

	return matches, nil
}

// Search returns work orders matching the free-text term, for cross-entity
// search.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*domain.WorkOrder, error) {
	orders, _, err := r.List(ctx, Filter{Search: &term, Limit: limit})
	return orders, err
}

func toDomain(row workOrderRow) *domain.WorkOrder {
	order := &domain.WorkOrder{
		PublicID:    row.PublicID,
		Title:       row.Title,
		Description: row.Description,
		Priority:    domain.WorkOrderPriority(row.Priority),
		Status:      domain.WorkOrderStatus(row.Status),
		AssetID:     row.AssetID,
		AssigneeID:  row.AssigneeID,
		DueDate:     row.DueDate,
		Tags:        row.Tags,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Longitude != nil && row.Latitude != nil {
		order.Location = &domain.GeoPoint{Longitude: *row.Longitude, Latitude: *row.Latitude}
	}
	return order
}
