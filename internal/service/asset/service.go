// Package asset implements the asset mutation and query business logic.
//
// Every mutation follows the same shape: validate the input exhaustively,
// run the write and its audit record in one transaction, and hand back the
// post-mutation record. Audit records are only written when the context
// carries an authenticated actor.
package asset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pgasset "github.com/assetbase/backend/internal/adapter/postgres/asset"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type assetRepo interface {
	Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error)
	Update(ctx context.Context, publicID string, params domain.AssetUpdateParams) (*domain.Asset, error)
	SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.Asset, error)
	Delete(ctx context.Context, publicID string) error
	GetByID(ctx context.Context, publicID string) (*domain.Asset, error)
	List(ctx context.Context, filter pgasset.Filter) ([]*domain.Asset, int, error)
	Near(ctx context.Context, query domain.NearQuery) ([]domain.AssetDistance, error)
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

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements asset business logic.
type Service struct {
	log       *slog.Logger
	assets    assetRepo
	ids       idAllocator
	audit     auditLogger
	tx        txManager
	maxRadius float64
}

// NewService creates a new asset service. maxRadiusMeters caps proximity
// query radii; zero means the default ceiling.
func NewService(logger *slog.Logger, assets assetRepo, ids idAllocator, audit auditLogger, tx txManager, maxRadiusMeters float64) *Service {
	return &Service{
		log:       logger.With("service", "asset"),
		assets:    assets,
		ids:       ids,
		audit:     audit,
		tx:        tx,
		maxRadius: maxRadiusMeters,
	}
}

// recordAudit writes one audit record for the mutation, or none at all when
// the context carries no authenticated actor.
func (s *Service) recordAudit(ctx context.Context, action domain.AuditAction, entityID string, oldValue, newValue map[string]any) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		s.log.DebugContext(ctx, "skipping audit for unauthenticated mutation",
			"entity_id", entityID, "action", action)
		return nil
	}

	record := domain.AuditRecord{
		EntityType: domain.EntityTypeAsset,
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

// actorID returns the acting identity, or uuid.Nil for anonymous calls.
func actorID(ctx context.Context) uuid.UUID {
	actor, _ := ctxutil.ActorFromCtx(ctx)
	return actor.ID
}

// snapshot captures the auditable fields of an asset.
func snapshot(a *domain.Asset) map[string]any {
	snap := map[string]any{
		"name":     a.Name,
		"category": a.Category,
		"status":   a.Status.String(),
	}
	if a.Description != nil {
		snap["description"] = *a.Description
	}
	if len(a.Tags) > 0 {
		snap["tags"] = a.Tags
	}
	if a.CustodianID != nil {
		snap["custodian_id"] = a.CustodianID.String()
	}
	if a.Location != nil {
		snap["location"] = map[string]any{
			"longitude": a.Location.Longitude,
			"latitude":  a.Location.Latitude,
		}
	}
	return snap
}
