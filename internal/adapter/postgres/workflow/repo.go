// Package workflow implements the Workflow repository using PostgreSQL.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/assetbase/backend/internal/adapter/postgres"
	"github.com/assetbase/backend/internal/domain"
)

// Repo provides workflow persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new workflow repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type workflowRow struct {
	PublicID          string     `db:"public_id"`
	Type              string     `db:"type"`
	Status            string     `db:"status"`
	Title             string     `db:"title"`
	Description       *string    `db:"description"`
	LinkedEntityID    *string    `db:"linked_entity_id"`
	EstimatedCost     *float64   `db:"estimated_cost"`
	ActualCost        *float64   `db:"actual_cost"`
	ApprovalThreshold *float64   `db:"approval_threshold"`
	Comments          *string    `db:"comments"`
	RequestedBy       uuid.UUID  `db:"requested_by"`
	DecidedBy         *uuid.UUID `db:"decided_by"`
	CompletedDate     *time.Time `db:"completed_date"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

const columns = `public_id, type, status, title, description, linked_entity_id,
	estimated_cost, actual_cost, approval_threshold, comments,
	requested_by, decided_by, completed_date, created_at, updated_at`

const createSQL = `
INSERT INTO workflows (public_id, type, status, title, description, linked_entity_id, estimated_cost, approval_threshold, requested_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + columns

// Create inserts a new workflow request in pending status.
func (r *Repo) Create(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workflowRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		wf.PublicID, wf.Type, wf.Status, wf.Title, wf.Description,
		wf.LinkedEntityID, wf.EstimatedCost, wf.ApprovalThreshold, wf.RequestedBy,
	)
	if err != nil {
		return nil, postgres.MapError(err, "workflow", wf.PublicID)
	}

	return toDomain(row), nil
}

// Update applies a partial metadata update. Status never moves here.
func (r *Repo) Update(ctx context.Context, publicID string, params domain.WorkflowUpdateParams) (*domain.Workflow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	update := psql.Update("workflows").Set("updated_at", sq.Expr("now()"))
	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.LinkedEntityID != nil {
		update = update.Set("linked_entity_id", *params.LinkedEntityID)
	}
	if params.EstimatedCost != nil {
		update = update.Set("estimated_cost", *params.EstimatedCost)
	}
	if params.ActualCost != nil {
		update = update.Set("actual_cost", *params.ActualCost)
	}
	if params.ApprovalThreshold != nil {
		update = update.Set("approval_threshold", *params.ApprovalThreshold)
	}

	querySQL, args, err := update.
		Where(sq.Eq{"public_id": publicID}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build workflow update: %w", err)
	}

	var row workflowRow
	if err := pgxscan.Get(ctx, q, &row, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "workflow", publicID)
	}

	return toDomain(row), nil
}

// The pending guard makes concurrent decisions race-safe: the second writer
// matches zero rows instead of overwriting the first decision.
const saveDecisionSQL = `
UPDATE workflows
SET status = $2, decided_by = $3, comments = $4, completed_date = $5, updated_at = now()
WHERE public_id = $1 AND status = 'pending'
RETURNING ` + columns

// SaveDecision persists an already-validated decision. Returns
// domain.ErrConflict when the workflow left pending status since it was
// loaded.
func (r *Repo) SaveDecision(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workflowRow
	err := pgxscan.Get(ctx, q, &row, saveDecisionSQL,
		wf.PublicID, wf.Status, wf.DecidedBy, wf.Comments, wf.CompletedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("workflow %s: decision race: %w", wf.PublicID, domain.ErrConflict)
		}
		return nil, postgres.MapError(err, "workflow", wf.PublicID)
	}

	return toDomain(row), nil
}

const deleteSQL = `DELETE FROM workflows WHERE public_id = $1`

// Delete removes the workflow.
func (r *Repo) Delete(ctx context.Context, publicID string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteSQL, publicID)
	if err != nil {
		return postgres.MapError(err, "workflow", publicID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workflow %s: %w", publicID, domain.ErrNotFound)
	}

	return nil
}

const getSQL = `SELECT ` + columns + ` FROM workflows WHERE public_id = $1`

// GetByID returns a workflow by public id.
func (r *Repo) GetByID(ctx context.Context, publicID string) (*domain.Workflow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row workflowRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, publicID); err != nil {
		return nil, postgres.MapError(err, "workflow", publicID)
	}

	return toDomain(row), nil
}

// Filter defines search and pagination parameters for listing workflows.
type Filter struct {
	Search      *string
	Status      *domain.WorkflowStatus
	Type        *domain.WorkflowType
	RequestedBy *uuid.UUID

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
	if f.Type != nil {
		pred = append(pred, sq.Eq{"type": *f.Type})
	}
	if f.RequestedBy != nil {
		pred = append(pred, sq.Eq{"requested_by": *f.RequestedBy})
	}
	return pred
}

// List returns one page of workflows plus the total count under the same
// filter.
func (r *Repo) List(ctx context.Context, filter Filter) ([]*domain.Workflow, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("workflows")
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
		return nil, 0, fmt.Errorf("build workflow list query: %w", err)
	}

	var rows []workflowRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "workflow", "list")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build workflow count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "workflow", "count")
	}

	workflows := make([]*domain.Workflow, len(rows))
	for i, row := range rows {
		workflows[i] = toDomain(row)
	}

	return workflows, total, nil
}

// Search returns workflows matching the free-text term, for cross-entity
// search.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*domain.Workflow, error) {
	workflows, _, err := r.List(ctx, Filter{Search: &term, Limit: limit})
	return workflows, err
}

func toDomain(row workflowRow) *domain.Workflow {
	return &domain.Workflow{
		PublicID:          row.PublicID,
		Type:              domain.WorkflowType(row.Type),
		Status:            domain.WorkflowStatus(row.Status),
		Title:             row.Title,
		Description:       row.Description,
		LinkedEntityID:    row.LinkedEntityID,
		EstimatedCost:     row.EstimatedCost,
		ActualCost:        row.ActualCost,
		ApprovalThreshold: row.ApprovalThreshold,
		Comments:          row.Comments,
		RequestedBy:       row.RequestedBy,
		DecidedBy:         row.DecidedBy,
		CompletedDate:     row.CompletedDate,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
