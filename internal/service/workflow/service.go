// Package workflow implements approval workflow business logic, including
// the pending -> approved/rejected decision step.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pgworkflow "github.com/assetbase/backend/internal/adapter/postgres/workflow"
	"github.com/assetbase/backend/internal/domain"
	"github.com/assetbase/backend/pkg/ctxutil"
)

type workflowRepo interface {
	Create(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error)
	Update(ctx context.Context, publicID string, params domain.WorkflowUpdateParams) (*domain.Workflow, error)
	SaveDecision(ctx context.Context, wf *domain.Workflow) (*domain.Workflow, error)
	Delete(ctx context.Context, publicID string) error
	GetByID(ctx context.Context, publicID string) (*domain.Workflow, error)
	List(ctx context.Context, filter pgworkflow.Filter) ([]*domain.Workflow, int, error)
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

// Service implements workflow business logic.
type Service struct {
	log       *slog.Logger
	workflows workflowRepo
	ids       idAllocator
	audit     auditLogger
	tx        txManager
}

// NewService creates a new workflow service.
func NewService(logger *slog.Logger, workflows workflowRepo, ids idAllocator, audit auditLogger, tx txManager) *Service {
	return &Service{
		log:       logger.With("service", "workflow"),
		workflows: workflows,
		ids:       ids,
		audit:     audit,
		tx:        tx,
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
		EntityType: domain.EntityTypeWorkflow,
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

func snapshot(w *domain.Workflow) map[string]any {
	snap := map[string]any{
		"type":   w.Type.String(),
		"status": w.Status.String(),
		"title":  w.Title,
	}
	if w.Description != nil {
		snap["description"] = *w.Description
	}
	if w.LinkedEntityID != nil {
		snap["linked_entity_id"] = *w.LinkedEntityID
	}
	if w.EstimatedCost != nil {
		snap["estimated_cost"] = *w.EstimatedCost
	}
	if w.ActualCost != nil {
		snap["actual_cost"] = *w.ActualCost
	}
	if w.ApprovalThreshold != nil {
		snap["approval_threshold"] = *w.ApprovalThreshold
	}
	if w.Comments != nil {
		snap["comments"] = *w.Comments
	}
	if w.DecidedBy != nil {
		snap["decided_by"] = w.DecidedBy.String()
	}
	return snap
}
