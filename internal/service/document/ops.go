package document

import (
	"context"
	"fmt"

	pgdocument "github.com/assetbase/backend/internal/adapter/postgres/document"
	"github.com/assetbase/backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	maxTitleLen       = 300
	maxDescriptionLen = 5000
	maxCategoryLen    = 100
	maxTags           = 20
	maxTagLen         = 50
)

// CreateInput holds the parameters for creating a document.
type CreateInput struct {
	Title          string
	Description    *string
	Category       string
	Status         *domain.DocumentStatus
	LinkedEntityID *string
	Tags           []string
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 300)"})
	}
	if i.Category == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
	} else if len(i.Category) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "too long (max 100)"})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
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

// UpdateInput holds a partial document update.
type UpdateInput struct {
	Title          *string
	Description    *string
	Category       *string
	Status         *domain.DocumentStatus
	LinkedEntityID *string
	Tags           []string
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
	if i.Category != nil && (*i.Category == "" || len(*i.Category) > maxCategoryLen) {
		errs = append(errs, domain.FieldError{Field: "category", Message: "must be 1-100 characters"})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
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
	return i.Title == nil && i.Description == nil && i.Category == nil &&
		i.Status == nil && i.LinkedEntityID == nil && i.Tags == nil
}

// ListInput holds filter and pagination parameters for listing documents.
type ListInput struct {
	Search         *string
	Status         *domain.DocumentStatus
	Category       *string
	LinkedEntityID *string
	Limit          int
	Offset         int
}

// Create allocates the next DOC- identifier, persists the document and
// audits the creation in one transaction. The acting identity becomes the
// document owner.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Document, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := domain.DocumentStatusDraft
	if input.Status != nil {
		status = *input.Status
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var created *domain.Document
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		publicID, err := s.ids.Next(txCtx, domain.EntityTypeDocument)
		if err != nil {
			return fmt.Errorf("allocate document id: %w", err)
		}

		created, err = s.docs.Create(txCtx, &domain.Document{
			PublicID:       publicID,
			Title:          input.Title,
			Description:    input.Description,
			Category:       input.Category,
			Status:         status,
			OwnerID:        actorID(txCtx),
			LinkedEntityID: input.LinkedEntityID,
			Tags:           tags,
		})
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		return s.recordAudit(txCtx, domain.AuditActionCreate, created.PublicID, nil, snapshot(created))
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "document created", "public_id", created.PublicID)
	return created, nil
}

// Update applies a partial update and returns the post-mutation record.
func (s *Service) Update(ctx context.Context, publicID string, input UpdateInput) (*domain.Document, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, domain.NewValidationError("update", "at least one field required")
	}

	before, err := s.docs.GetByID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Document
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err = s.docs.Update(txCtx, publicID, domain.DocumentUpdateParams{
			Title:          input.Title,
			Description:    input.Description,
			Category:       input.Category,
			Status:         input.Status,
			LinkedEntityID: input.LinkedEntityID,
			Tags:           input.Tags,
		})
		if err != nil {
			return fmt.Errorf("update document %s: %w", publicID, err)
		}

		oldValue, newValue := domain.DiffSnapshots(snapshot(before), snapshot(updated))
		return s.recordAudit(txCtx, domain.AuditActionUpdate, publicID, oldValue, newValue)
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// Delete removes the document and audits the removal.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	before, err := s.docs.GetByID(ctx, publicID)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.docs.Delete(txCtx, publicID); err != nil {
			return fmt.Errorf("delete document %s: %w", publicID, err)
		}

		return s.recordAudit(txCtx, domain.AuditActionDelete, publicID, snapshot(before), nil)
	})
}

// Get returns a document by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*domain.Document, error) {
	return s.docs.GetByID(ctx, publicID)
}

// List returns one page of documents and the total count under the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Document, int, error) {
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

	return s.docs.List(ctx, pgdocument.Filter{
		Search:         input.Search,
		Status:         input.Status,
		Category:       input.Category,
		LinkedEntityID: input.LinkedEntityID,
		Limit:          limit,
		Offset:         offset,
	})
}
