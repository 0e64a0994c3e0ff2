// Package document implements document record business logic. Documents
// carry sequenced DOC- identifiers but no location.
package document

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pgdocument "github.com/assetbase/backend/internal/adapter/postgres/document"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

type documentRepo interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Update(ctx context.Context, publicID string, params domain.DocumentUpdateParams) (*domain.Document, error)
	Delete(ctx context.Context, publicID string) error
	GetByID(ctx context.Context, publicID string) (*domain.Document, error)
	List(ctx context.Context, filter pgdocument.Filter) ([]*domain.Document, int, error)
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

// Service implements document business logic.
type Service struct {
	log   *slog.Logger
	docs  documentRepo
	ids   idAllocator
	audit auditLogger
	tx    txManager
}

// NewService creates a new document service.
func NewService(logger *slog.Logger, docs documentRepo, ids idAllocator, audit auditLogger, tx txManager) *Service {
	return &Service{
		log:   logger.With("service", "document"),
		docs:  docs,
		ids:   ids,
		audit: audit,
		tx:    tx,
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
		EntityType: domain.EntityTypeDocument,
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

func snapshot(d *domain.Document) map[string]any {
	snap := map[string]any{
		"title":    d.Title,
		"category": d.Category,
		"status":   d.Status.String(),
		"owner_id": d.OwnerID.String(),
	}
	if d.Description != nil {
		snap["description"] = *d.Description
	}
	if d.LinkedEntityID != nil {
		snap["linked_entity_id"] = *d.LinkedEntityID
	}
	if len(d.Tags) > 0 {
		snap["tags"] = d.Tags
	}
	return snap
}
