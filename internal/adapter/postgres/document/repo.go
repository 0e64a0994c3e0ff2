// Package document implements the Document repository using PostgreSQL.
package document

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

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new document repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type documentRow struct {
	PublicID       string    `db:"public_id"`
	Title          string    `db:"title"`
	Description    *string   `db:"description"`
	Category       string    `db:"category"`
	Status         string    `db:"status"`
	OwnerID        uuid.UUID `db:"owner_id"`
	LinkedEntityID *string   `db:"linked_entity_id"`
	Tags           []string  `db:"tags"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const columns = `public_id, title, description, category, status, owner_id,
	linked_entity_id, tags, created_at, updated_at`

const createSQL = `
INSERT INTO documents (public_id, title, description, category, status, owner_id, linked_entity_id, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + columns

// Create inserts a new document and returns the persisted row.
func (r *Repo) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row documentRow
	err := pgxscan.Get(ctx, q, &row, createSQL,
		doc.PublicID, doc.Title, doc.Description, doc.Category,
		doc.Status, doc.OwnerID, doc.LinkedEntityID, doc.Tags,
	)
	if err != nil {
		return nil, postgres.MapError(err, "document", doc.PublicID)
	}

	return toDomain(row), nil
}

// Update applies a partial update and returns the new row.
func (r *Repo) Update(ctx context.Context, publicID string, params domain.DocumentUpdateParams) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	update := psql.Update("documents").Set("updated_at", sq.Expr("now()"))
	if params.Title != nil {
		update = update.Set("title", *params.Title)
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
	if params.LinkedEntityID != nil {
		update = update.Set("linked_entity_id", *params.LinkedEntityID)
	}
	if params.Tags != nil {
		update = update.Set("tags", params.Tags)
	}

	querySQL, args, err := update.
		Where(sq.Eq{"public_id": publicID}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document update: %w", err)
	}

	var row documentRow
	if err := pgxscan.Get(ctx, q, &row, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "document", publicID)
	}

	return toDomain(row), nil
}

const deleteSQL = `DELETE FROM documents WHERE public_id = $1`

// Delete removes the document.
func (r *Repo) Delete(ctx context.Context, publicID string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteSQL, publicID)
	if err != nil {
		return postgres.MapError(err, "document", publicID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", publicID, domain.ErrNotFound)
	}

	return nil
}

const getSQL = `SELECT ` + columns + ` FROM documents WHERE public_id = $1`

// GetByID returns a document by public id.
func (r *Repo) GetByID(ctx context.Context, publicID string) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row documentRow
	if err := pgxscan.Get(ctx, q, &row, getSQL, publicID); err != nil {
		return nil, postgres.MapError(err, "document", publicID)
	}

	return toDomain(row), nil
}

// Filter defines search and pagination parameters for listing documents.
type Filter struct {
	Search         *string
	Status         *domain.DocumentStatus
	Category       *string
	LinkedEntityID *string

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
	if f.Category != nil {
		pred = append(pred, sq.Eq{"category": *f.Category})
	}
	if f.LinkedEntityID != nil {
		pred = append(pred, sq.Eq{"linked_entity_id": *f.LinkedEntityID})
	}
	return pred
}

// List returns one page of documents plus the total count under the same
// filter.
func (r *Repo) List(ctx context.Context, filter Filter) ([]*domain.Document, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("documents")
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
		return nil, 0, fmt.Errorf("build document list query: %w", err)
	}

	var rows []documentRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "document", "list")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build document count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "document", "count")
	}

	docs := make([]*domain.Document, len(rows))
	for i, row := range rows {
		docs[i] = toDomain(row)
	}

	return docs, total, nil
}

// Search returns documents matching the free-text term, for cross-entity
// search.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*domain.Document, error) {
	docs, _, err := r.List(ctx, Filter{Search: &term, Limit: limit})
	return docs, err
}

func toDomain(row documentRow) *domain.Document {
	return &domain.Document{
		PublicID:       row.PublicID,
		Title:          row.Title,
		Description:    row.Description,
		Category:       row.Category,
		Status:         domain.DocumentStatus(row.Status),
		OwnerID:        row.OwnerID,
		LinkedEntityID: row.LinkedEntityID,
		Tags:           row.Tags,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
