// Package audit implements read access to the append-only audit trail.
// Writes happen inside the entity services; this service only pages.
package audit

import (
	"context"
	"log/slog"

	"github.com/assetbase/backend/internal/config"
	"github.com/assetbase/backend/internal/domain"
)

type auditRepo interface {
	List(ctx context.Context, limit, offset int, beforeID *int64) (domain.AuditPage, error)
	GetByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit int) ([]domain.AuditRecord, error)
}

// Service implements audit trail queries.
type Service struct {
	log     *slog.Logger
	records auditRepo
	cfg     config.AuditConfig
}

// NewService creates a new audit query service.
func NewService(logger *slog.Logger, records auditRepo, cfg config.AuditConfig) *Service {
	return &Service{
		log:     logger.With("service", "audit"),
		records: records,
		cfg:     cfg,
	}
}

// ListInput holds pagination parameters for the audit trail. BeforeID pins
// the page to records at or below that id, so pages stay stable while new
// records keep arriving.
type ListInput struct {
	Limit    int
	Offset   int
	BeforeID *int64
}

// Validate checks the pagination fields.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if i.BeforeID != nil && *i.BeforeID <= 0 {
		errs = append(errs, domain.FieldError{Field: "before", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// List returns one page of audit records, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (domain.AuditPage, error) {
	if err := input.Validate(); err != nil {
		return domain.AuditPage{}, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	} else if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	return s.records.List(ctx, limit, input.Offset, input.BeforeID)
}

// GetByEntity returns the newest audit records for one entity.
func (s *Service) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID string, limit int) ([]domain.AuditRecord, error) {
	if !entityType.IsValid() {
		return nil, domain.NewValidationError("entity_type", "unknown entity type")
	}
	if entityID == "" {
		return nil, domain.NewValidationError("entity_id", "required")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	} else if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	return s.records.GetByEntity(ctx, entityType, entityID, limit)
}
