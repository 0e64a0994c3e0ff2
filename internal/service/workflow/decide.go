package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/assetbase/backend/internal/domain"
)

const maxCommentsLen = 5000

// DecideInput holds an approval decision. Comments are mandatory when
// rejecting, so the requester always learns why.
type DecideInput struct {
	Status   domain.WorkflowStatus
	Comments *string
}

// Validate checks the decision fields and collects all errors.
func (i *DecideInput) Validate() error {
	var errs []domain.FieldError

	switch i.Status {
	case domain.WorkflowStatusApproved:
	case domain.WorkflowStatusRejected:
		if i.Comments == nil || strings.TrimSpace(*i.Comments) == "" {
			errs = append(errs, domain.FieldError{Field: "comments", Message: "required when rejecting"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be approved or rejected"})
	}
	if i.Comments != nil && len(*i.Comments) > maxCommentsLen {
		errs = append(errs, domain.FieldError{Field: "comments", Message: "too long (max 5000)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Decide moves a pending workflow to approved or rejected, stamps the
// completion time and the deciding actor, and audits the transition.
// Workflows in any other status return ErrInvalidTransition. Deciding
// requires an authenticated actor.
func (s *Service) Decide(ctx context.Context, publicID string, input DecideInput) (*domain.Workflow, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	decider := actorID(ctx)
	if decider == uuid.Nil {
		return nil, fmt.Errorf("workflow %s decision: %w", publicID, domain.ErrUnauthorized)
	}

	current, err := s.workflows.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	before := snapshot(current)

	if err := current.ApplyDecision(input.Status, decider, input.Comments, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("workflow %s: %s -> %s: %w",
			publicID, before["status"], input.Status, err)
	}

	var decided *domain.Workflow
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		decided, err = s.workflows.SaveDecision(txCtx, current)
		if err != nil {
			return fmt.Errorf("save workflow %s decision: %w", publicID, err)
		}

		oldValue, newValue := domain.DiffSnapshots(before, snapshot(decided))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, publicID, oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "workflow decided",
		"public_id", publicID, "status", decided.Status, "decided_by", decider)
	return decided, nil
}
