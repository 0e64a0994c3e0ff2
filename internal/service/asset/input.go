package asset

import (
	"github.com/google/uuid"

	"github.com/assetbase/backend/internal/domain"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 5000
	maxCategoryLen    = 100
	maxTags           = 20
	maxTagLen         = 50
)

// CreateInput holds the parameters for creating an asset.
type CreateInput struct {
	Name        string
	Description *string
	Category    string
	Status      *domain.AssetStatus
	Tags        []string
	CustodianID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 200)"})
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
	errs = append(errs, validateTags(i.Tags)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds a partial asset update. Nil fields stay unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	Status      *domain.AssetStatus
	Tags        []string
	CustodianID *uuid.UUID
}

// Validate checks all provided fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil {
		if *i.Name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
		} else if len(*i.Name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 200)"})
		}
	}
	if i.Category != nil {
		if *i.Category == "" {
			errs = append(errs, domain.FieldError{Field: "category", Message: "must not be empty"})
		} else if len(*i.Category) > maxCategoryLen {
			errs = append(errs, domain.FieldError{Field: "category", Message: "too long (max 100)"})
		}
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	errs = append(errs, validateTags(i.Tags)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *UpdateInput) empty() bool {
	return i.Name == nil && i.Description == nil && i.Category == nil &&
		i.Status == nil && i.Tags == nil && i.CustodianID == nil
}

// ListInput holds filter and pagination parameters for listing assets.
type ListInput struct {
	Search   *string
	Status   *domain.AssetStatus
	Category *string
	Limit    int
	Offset   int
}

func validateTags(tags []string) []domain.FieldError {
	var errs []domain.FieldError
	if len(tags) > maxTags {
		errs = append(errs, domain.FieldError{Field: "tags", Message: "too many (max 20)"})
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLen {
			errs = append(errs, domain.FieldError{Field: "tags", Message: "each tag must be 1-50 characters"})
			break
		}
	}
	return errs
}
