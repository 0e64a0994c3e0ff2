// Package audit implements the audit trail repository using PostgreSQL.
// It provides append-only operations for audit log records: rows are written
// once and no update or delete path exists.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/assetbase/backend/internal/adapter/postgres"
	"github.com/assetbase/backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// auditRow is the table-shaped record scany scans into.
type auditRow struct {
	ID          int64     `db:"id"`
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	Action      string    `db:"action"`
	ActorID     uuid.UUID `db:"actor_id"`
	ActorName   *string   `db:"actor_name"`
	OldValue    []byte    `db:"old_value"`
	NewValue    []byte    `db:"new_value"`
	OriginIP    *string   `db:"origin_ip"`
	OriginAgent *string   `db:"origin_agent"`
	CreatedAt   time.Time `db:"created_at"`
}

const insertSQL = `
INSERT INTO audit_logs (entity_type, entity_id, action, actor_id, actor_name,
                        old_value, new_value, origin_ip, origin_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`

// Log appends one audit record. The inserted row's id and timestamp are not
// returned to the caller: the trail is written for later inspection, not for
// the mutation path to read back.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	oldJSON, err := marshalSnapshot(record.OldValue)
	if err != nil {
		return fmt.Errorf("audit_record marshal old_value: %w", err)
	}
	newJSON, err := marshalSnapshot(record.NewValue)
	if err != nil {
		return fmt.Errorf("audit_record marshal new_value: %w", err)
	}

	var (
		id        int64
		createdAt time.Time
	)
	err = q.QueryRow(ctx, insertSQL,
		record.EntityType, record.EntityID, record.Action,
		record.ActorID, record.ActorName,
		oldJSON, newJSON,
		record.OriginIP, record.OriginAgent,
	).Scan(&id, &createdAt)
	if err != nil {
		return postgres.MapError(err, "audit_record", record.EntityID)
	}

	return nil
}

// List returns one page of the audit trail, newest first, plus the total
// count computed under the same predicate.
//
// beforeID anchors pagination: with an anchor set, rows inserted after the
// first page was read cannot shift later pages, so no row is re-shown.
// Pass nil for an unanchored first page.
func (r *Repo) List(ctx context.Context, limit, offset int, beforeID *int64) (domain.AuditPage, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	base := psql.Select().From("audit_logs")
	if beforeID != nil {
		base = base.Where(sq.LtOrEq{"id": *beforeID})
	}

	pageSQL, pageArgs, err := base.
		Columns("id", "entity_type", "entity_id", "action", "actor_id", "actor_name",
			"old_value", "new_value", "origin_ip", "origin_agent", "created_at").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("build audit page query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return domain.AuditPage{}, postgres.MapError(err, "audit_log", "page")
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return domain.AuditPage{}, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.AuditPage{}, postgres.MapError(err, "audit_log", "count")
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		rec, err := toDomainRecord(row)
		if err != nil {
			return domain.AuditPage{}, err
		}
		records[i] = rec
	}

	return domain.AuditPage{Records: records, Total: total}, nil
}

// GetByEntity returns the change history for one entity, newest first.
func (r *Repo) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit int) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	querySQL, args, err := psql.
		Select("id", "entity_type", "entity_id", "action", "actor_id", "actor_name",
			"old_value", "new_value", "origin_ip", "origin_agent", "created_at").
		From("audit_logs").
		Where(sq.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit entity query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, q, &rows, querySQL, args...); err != nil {
		return nil, postgres.MapError(err, "audit_log", entityID)
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		rec, err := toDomainRecord(row)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}

	return records, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func marshalSnapshot(snapshot map[string]any) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	return json.Marshal(snapshot)
}

func unmarshalSnapshot(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	snapshot := make(map[string]any)
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func toDomainRecord(row auditRow) (domain.AuditRecord, error) {
	oldValue, err := unmarshalSnapshot(row.OldValue)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record %d unmarshal old_value: %w", row.ID, err)
	}
	newValue, err := unmarshalSnapshot(row.NewValue)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record %d unmarshal new_value: %w", row.ID, err)
	}

	return domain.AuditRecord{
		ID:          row.ID,
		EntityType:  domain.EntityType(row.EntityType),
		EntityID:    row.EntityID,
		Action:      domain.AuditAction(row.Action),
		ActorID:     row.ActorID,
		ActorName:   row.ActorName,
		OldValue:    oldValue,
		NewValue:    newValue,
		OriginIP:    row.OriginIP,
		OriginAgent: row.OriginAgent,
		CreatedAt:   row.CreatedAt,
	}, nil
}
