package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pgworkflow "github.com/assetbase/backend/internal/adapter/postgres/workflow"
	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	maxTitleLen       = 300
	maxDescriptionLen = 5000
)

// CreateInput holds the parameters for filing a workflow request. Every
// request starts in pending status.
type CreateInput struct {
	Type              domain.WorkflowType
	Title             string
	Description       *string
	LinkedEntityID    *string
	EstimatedCost     *float64
	ApprovalThreshold *float64
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Type == "" {
		errs = append(errs, domain.FieldError{Field: "type", Message: "required"})
	} else if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown type"})
	}
	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 300)"})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.EstimatedCost != nil && *i.EstimatedCost < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_cost", Message: "must not be negative"})
	}
	if i.ApprovalThreshold != nil && *i.ApprovalThreshold < 0 {
		errs = append(errs, domain.FieldError{Field: "approval_threshold", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds a partial workflow metadata update. Status moves only
// through Decide.
type UpdateInput struct {
	Title             *string
	Description       *string
	LinkedEntityID    *string
	EstimatedCost     *float64
	ActualCost        *float64
	ApprovalThreshold *float64
}

// Validate checks all provided fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Title != nil {
		if *i.Title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
		} else if len(*i.Title) > maxTitleLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 300)"})
		}
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.EstimatedCost != nil && *i.EstimatedCost < 0 {
		errs = append(errs, domain.FieldError{Field: "estimated_cost", Message: "must not be negative"})
	}
	if i.ActualCost != nil && *i.ActualCost < 0 {
		errs = append(errs, domain.FieldError{Field: "actual_cost", Message: "must not be negative"})
	}
	if i.ApprovalThreshold != nil && *i.ApprovalThreshold < 0 {
		errs = append(errs, domain.FieldError{Field: "approval_threshold", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *UpdateInput) empty() bool {
	return i.Title == nil && i.Description == nil && i.LinkedEntityID == nil &&
		i.EstimatedCost == nil && i.ActualCost == nil && i.ApprovalThreshold == nil
}

// ListInput holds filter and pagination parameters for listing workflows.
type ListInput struct {
	Search      *string
	Status      *domain.WorkflowStatus
	Type        *domain.WorkflowType
	RequestedBy *uuid.UUID
	Limit       int
	Offset      int
}

// Create allocates the next WKF- identifier and files the request.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Workflow, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Workflow
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		publicID, err := s.ids.Next(txCtx, domain.EntityTypeWorkflow)
		if err != nil {
			return fmt.Errorf("allocate workflow id: %w", err)
		}

		created, err = s.workflows.Create(txCtx, &domain.Workflow{
			PublicID:          publicID,
			Type:              input.Type,
			Status:            domain.WorkflowStatusPending,
			Title:             input.Title,
			Description:       input.Description,
			LinkedEntityID:    input.LinkedEntityID,
			EstimatedCost:     input.EstimatedCost,
			ApprovalThreshold: input.ApprovalThreshold,
			RequestedBy:       actorID(txCtx),
		})
		if err != nil {
			return fmt.Errorf("create workflow: %w", err)
		}

		return s.recordAudit(txCtx, domain.AuditActionCreate, created.PublicID, nil, snapshot(created))
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "workflow created", "public_id", created.PublicID)
	return created, nil
}

// Update applies a partial metadata update and returns the post-mutation
// record.
func (s *Service) Update(ctx context.Context, publicID string, input UpdateInput) (*domain.Workflow, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, domain.NewValidationError("update", "at least one field required")
	}

	before, err := s.workflows.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Workflow
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.workflows.Update(txCtx, publicID, domain.WorkflowUpdateParams{
			Title:             input.Title,
			Description:       input.Description,
			LinkedEntityID:    input.LinkedEntityID,
			EstimatedCost:     input.EstimatedCost,
			ActualCost:        input.ActualCost,
			ApprovalThreshold: input.ApprovalThreshold,
		})
		if err != nil {
			return fmt.Errorf("update workflow %s: %w", publicID, err)
		}

		oldValue, newValue := domain.DiffSnapshots(snapshot(before), snapshot(updated))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, publicID, oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// Delete removes the workflow and audits the removal.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	before, err := s.workflows.GetByID(ctx, publicID)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.workflows.Delete(txCtx, publicID); err != nil {
			return fmt.Errorf("delete workflow %s: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionDelete, publicID, snapshot(before), nil)
	})
}

// Get returns a workflow by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*domain.Workflow, error) {
	return s.workflows.GetByID(ctx, publicID)
}

// List returns one page of workflows and the total count under the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Workflow, int, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return s.workflows.List(ctx, pgworkflow.Filter{
		Search:      input.Search,
		Status:      input.Status,
		Type:        input.Type,
		RequestedBy: input.RequestedBy,
		Limit:       limit,
		Offset:      offset,
	})
}
