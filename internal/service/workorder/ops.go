package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pgworkorder "github.com/assetbase/backend/internal/adapter/postgres/workorder"
	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	maxTitleLen       = 300
	maxDescriptionLen = 5000
	maxTags           = 20
	maxTagLen         = 50
)

// CreateInput holds the parameters for opening a work order.
type CreateInput struct {
	Title       string
	Description *string
	Priority    *domain.WorkOrderPriority
	AssetID     *string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Tags        []string
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 300)"})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.Priority != nil && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "unknown priority"})
	}
	if len(i.Tags) > maxTags {
		errs = append(errs, domain.FieldError{Field: "tags", Message: "too many (max 20)"})
	}
	for _, tag := range i.Tags {
		if tag == "" || len(tag) > maxTagLen {
			errs = append(errs, domain.FieldError{Field: "tags", Message: "each tag must be 1-50 characters"})
			break
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds a partial work order update.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.WorkOrderPriority
	Status      *domain.WorkOrderStatus
	AssetID     *string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Tags        []string
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
	if i.Priority != nil && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: "unknown priority"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *UpdateInput) empty() bool {
	return i.Title == nil && i.Description == nil && i.Priority == nil &&
		i.Status == nil && i.AssetID == nil && i.AssigneeID == nil &&
		i.DueDate == nil && i.Tags == nil
}

// ListInput holds filter and pagination parameters for listing work orders.
type ListInput struct {
	Search     *string
	Status     *domain.WorkOrderStatus
	Priority   *domain.WorkOrderPriority
	AssetID    *string
	AssigneeID *uuid.UUID
	Limit      int
	Offset     int
}

// Create allocates the next WO- identifier, persists the work order and
// audits the creation in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.WorkOrder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	priority := domain.WorkOrderPriorityMedium
	if input.Priority != nil {
		priority = *input.Priority
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var created *domain.WorkOrder
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		publicID, err := s.ids.Next(txCtx, domain.EntityTypeWorkOrder)
		if err != nil {
			return fmt.Errorf("allocate work order id: %w", err)
		}

		created, err = s.orders.Create(txCtx, &domain.WorkOrder{
			PublicID:    publicID,
			Title:       input.Title,
			Description: input.Description,
			Priority:    priority,
			Status:      domain.WorkOrderStatusOpen,
			AssetID:     input.AssetID,
			AssigneeID:  input.AssigneeID,
			DueDate:     input.DueDate,
			Tags:        tags,
			CreatedBy:   actorID(txCtx),
		})
		if err != nil {
			return fmt.Errorf("create work order: %w", err)
		}

		return s.recordAudit(txCtx, domain.AuditActionCreate, created.PublicID, nil, snapshot(created))
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "work order created", "public_id", created.PublicID)
	return created, nil
}

// Update applies a partial update and returns the post-mutation record.
func (s *Service) Update(ctx context.Context, publicID string, input UpdateInput) (*domain.WorkOrder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, domain.NewValidationError("update", "at least one field required")
	}

	before, err := s.orders.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	var updated *domain.WorkOrder
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.orders.Update(txCtx, publicID, domain.WorkOrderUpdateParams{
			Title:       input.Title,
			Description: input.Description,
			Priority:    input.Priority,
			Status:      input.Status,
			AssetID:     input.AssetID,
			AssigneeID:  input.AssigneeID,
			DueDate:     input.DueDate,
			Tags:        input.Tags,
		})
		if err != nil {
			return fmt.Errorf("update work order %s: %w", publicID, err)
		}

		oldValue, newValue := domain.DiffSnapshots(snapshot(before), snapshot(updated))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, publicID, oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// Delete removes the work order and audits the removal.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	before, err := s.orders.GetByID(ctx, publicID)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.Delete(txCtx, publicID); err != nil {
			return fmt.Errorf("delete work order %s: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionDelete, publicID, snapshot(before), nil)
	})
}

// Get returns a work order by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*domain.WorkOrder, error) {
	return s.orders.GetByID(ctx, publicID)
}

// List returns one page of work orders and the total count under the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.WorkOrder, int, error) {
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

	return s.orders.List(ctx, pgworkorder.Filter{
		Search:     input.Search,
		Status:     input.Status,
		Priority:   input.Priority,
		AssetID:    input.AssetID,
		AssigneeID: input.AssigneeID,
		Limit:      limit,
		Offset:     offset,
	})
}

// Near returns all work orders with a stored point strictly within the
// radius.
func (s *Service) Near(ctx context.Context, query domain.NearQuery) ([]domain.WorkOrderDistance, error) {
	if err := query.ValidateMax(s.maxRadius); err != nil {
		return nil, err
	}
	return s.orders.Near(ctx, query)
}

// SetLocation overwrites the work order's stored point. Only the creator or
// the assignee may move it.
func (s *Service) SetLocation(ctx context.Context, publicID string, point domain.GeoPoint) (*domain.WorkOrder, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	before, err := s.orders.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditLocation(actorID(ctx), before) {
		return nil, fmt.Errorf("work order %s location: %w", publicID, domain.ErrForbidden)
	}

	var updated *domain.WorkOrder
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.orders.SetLocation(txCtx, publicID, point)
		if err != nil {
			return fmt.Errorf("set work order %s location: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionLocationUpdate, publicID,
			locationSnapshot(before.Location), locationSnapshot(updated.Location))
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

func locationSnapshot(p *domain.GeoPoint) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{"longitude": p.Longitude, "latitude": p.Latitude}
}
