// Package staff implements staff member business logic. Staff carry opaque
// UUIDs instead of sequenced identifiers, so no allocator is involved here.
package staff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pgstaff "github.com/assetbase/backend/internal/adapter/postgres/staff"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

type staffRepo interface {
	Create(ctx context.Context, member *domain.Staff) (*domain.Staff, error)
	Update(ctx context.Context, id uuid.UUID, params domain.StaffUpdateParams) (*domain.Staff, error)
	SetLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint) (*domain.Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	List(ctx context.Context, filter pgstaff.Filter) ([]*domain.Staff, int, error)
	Near(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements staff business logic.
type Service struct {
	log       *slog.Logger
	staff     staffRepo
	audit     auditLogger
	tx        txManager
	maxRadius float64
}

// NewService creates a new staff service. maxRadiusMeters caps proximity
// query radii; zero means the default ceiling.
func NewService(logger *slog.Logger, staff staffRepo, audit auditLogger, tx txManager, maxRadiusMeters float64) *Service {
	return &Service{
		log:       logger.With("service", "staff"),
		staff:     staff,
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
		EntityType: domain.EntityTypeStaff,
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

func snapshot(m *domain.Staff) map[string]any {
	snap := map[string]any{
		"full_name": m.FullName,
		"email":     m.Email,
		"position":  m.Position,
		"status":    m.Status.String(),
	}
	if m.Department != nil {
		snap["department"] = *m.Department
	}
	if len(m.Tags) > 0 {
		snap["tags"] = m.Tags
	}
	if m.Location != nil {
		snap["location"] = map[string]any{
			"longitude": m.Location.Longitude,
			"latitude":  m.Location.Latitude,
		}
	}
	return snap
}
