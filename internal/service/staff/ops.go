package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pgstaff "github.com/assetbase/backend/internal/adapter/postgres/staff"
	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Create registers a staff member and audits the creation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Staff, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := domain.StaffStatusActive
	if input.Status != nil {
		status = *input.Status
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var created *domain.Staff
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.staff.Create(txCtx, &domain.Staff{
			ID:         uuid.New(),
			FullName:   input.FullName,
			Email:      input.Email,
			Position:   input.Position,
			Department: input.Department,
			Status:     status,
			Tags:       tags,
		})
		if err != nil {
			return fmt.Errorf("create staff: %w", err)
		}

		return s.recordAudit(txCtx, domain.AuditActionCreate, created.ID.String(), nil, snapshot(created))
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "staff created", "staff_id", created.ID)
	return created, nil
}

// Update applies a partial update and returns the post-mutation record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Staff, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, domain.NewValidationError("update", "at least one field required")
	}

	before, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *domain.Staff
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.staff.Update(txCtx, id, domain.StaffUpdateParams{
			FullName:   input.FullName,
			Email:      input.Email,
			Position:   input.Position,
			Department: input.Department,
			Status:     input.Status,
			Tags:       input.Tags,
		})
		if err != nil {
			return fmt.Errorf("update staff %s: %w", id, err)
		}

		oldValue, newValue := domain.DiffSnapshots(snapshot(before), snapshot(updated))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, id.String(), oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// Delete removes the staff member and audits the removal.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	before, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.staff.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete staff %s: %w", id, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionDelete, id.String(), snapshot(before), nil)
	})
}

// Get returns a staff member by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

// List returns one page of staff and the total count under the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Staff, int, error) {
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

	return s.staff.List(ctx, pgstaff.Filter{
		Search:     input.Search,
		Status:     input.Status,
		Department: input.Department,
		Limit:      limit,
		Offset:     offset,
	})
}

// Near returns all staff with a stored point strictly within the radius.
func (s *Service) Near(ctx context.Context, query domain.NearQuery) ([]domain.StaffDistance, error) {
	if err := query.ValidateMax(s.maxRadius); err != nil {
		return nil, err
	}
	return s.staff.Near(ctx, query)
}

// SetLocation overwrites the staff member's stored point. A staff member may
// only move their own point.
func (s *Service) SetLocation(ctx context.Context, id uuid.UUID, point domain.GeoPoint) (*domain.Staff, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	before, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditLocation(actorID(ctx), before) {
		return nil, fmt.Errorf("staff %s location: %w", id, domain.ErrForbidden)
	}

	var updated *domain.Staff
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.staff.SetLocation(txCtx, id, point)
		if err != nil {
			return fmt.Errorf("set staff %s location: %w", id, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionLocationUpdate, id.String(),
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
