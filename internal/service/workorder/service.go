// Package workorder implements work order business logic. Work orders carry
// sequenced WO- identifiers and may hold a job-site location.
package workorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pgworkorder "github.com/assetbase/backend/internal/adapter/postgres/workorder"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

type workOrderRepo interface {
	Create(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error)
	Update(ctx context.Context, publicID string, params domain.WorkOrderUpdateParams) (*domain.WorkOrder, error)
	SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.WorkOrder, error)
	Delete(ctx context.Context, publicID string) error
	GetByID(ctx context.Context, publicID string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter pgworkorder.Filter) ([]*domain.WorkOrder, int, error)
	Near(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error)
}

type idAllocator interface {
	Next(ctx context.Context, entityType domain.EntityType) (string, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements work order business logic.
type Service struct {
	log       *slog.Logger
	orders    workOrderRepo
	ids       idAllocator
	audit     auditLogger
	tx        txManager
	maxRadius float64
}

// NewService creates a new work order service. maxRadiusMeters caps proximity
// query radii; zero means the default ceiling.
func NewService(logger *slog.Logger, orders workOrderRepo, ids idAllocator, audit auditLogger, tx txManager, maxRadiusMeters float64) *Service {
	return &Service{
		log:       logger.With("service", "workorder"),
		orders:    orders,
		ids:       ids,
		audit:     audit,
		tx:        tx,
		maxRadius: maxRadiusMeters,
	}
}

func (s *Service) recordAudit(ctx context.Context, action domain.AuditAction, entityID string, oldValue, newValue map[string]any) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		s.log.DebugContext(ctx, "skipping audit for unauthenticated mutation",
			"entity_id", entityID, "action", action)
		return nil
	}

	record := domain.AuditRecord{
		EntityType: domain.EntityTypeWorkOrder,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actor.ID,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if actor.DisplayName != "" {
		record.ActorName = &actor.DisplayName
	}
	origin := ctxutil.OriginFromCtx(ctx)
	if origin.IP != "" {
		record.OriginIP = &origin.IP
	}
	if origin.UserAgent != "" {
		record.OriginAgent = &origin.UserAgent
	}

	if err := s.audit.Log(ctx, record); err != nil {
		return fmt.Errorf("audit %s %s: %w", action, entityID, err)
	}
	return nil
}

func actorID(ctx context.Context) uuid.UUID {
	actor, _ := ctxutil.ActorFromCtx(ctx)
	return actor.ID
}

func snapshot(w *domain.WorkOrder) map[string]any {
	snap := map[string]any{
		"title":    w.Title,
		"priority": w.Priority.String(),
		"status":   w.Status.String(),
	}
	if w.Description != nil {
		snap["description"] = *w.Description
	}
	if w.AssetID != nil {
		snap["asset_id"] = *w.AssetID
	}
	if w.AssigneeID != nil {
		snap["assignee_id"] = w.AssigneeID.String()
	}
	if w.DueDate != nil {
		snap["due_date"] = w.DueDate.UTC().Format("2006-01-02")
	}
	if len(w.Tags) > 0 {
		snap["tags"] = w.Tags
	}
	if w.Location != nil {
		snap["location"] = map[string]any{
			"longitude": w.Location.Longitude,
			"latitude":  w.Location.Latitude,
		}
	}
	return snap
}
