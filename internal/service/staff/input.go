package staff

import (
	"net/mail"

	"github.com/assetbase/backend/internal/domain"
)

const (
	maxNameLen     = 200
	maxEmailLen    = 254
	maxPositionLen = 100
	maxTags        = 20
	maxTagLen      = 50
)

// CreateInput holds the parameters for registering a staff member.
type CreateInput struct {
	FullName   string
	Email      string
	Position   string
	Department *string
	Status     *domain.StaffStatus
	Tags       []string
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.FullName == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	} else if len(i.FullName) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "too long (max 200)"})
	}
	errs = append(errs, validateEmail(i.Email, false)...)
	if i.Position == "" {
		errs = append(errs, domain.FieldError{Field: "position", Message: "required"})
	} else if len(i.Position) > maxPositionLen {
		errs = append(errs, domain.FieldError{Field: "position", Message: "too long (max 100)"})
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

// UpdateInput holds a partial staff update.
type UpdateInput struct {
	FullName   *string
	Email      *string
	Position   *string
	Department *string
	Status     *domain.StaffStatus
	Tags       []string
}

// Validate checks all provided fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.FullName != nil {
		if *i.FullName == "" {
			errs = append(errs, domain.FieldError{Field: "full_name", Message: "must not be empty"})
		} else if len(*i.FullName) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "full_name", Message: "too long (max 200)"})
		}
	}
	if i.Email != nil {
		errs = append(errs, validateEmail(*i.Email, false)...)
	}
	if i.Position != nil {
		if *i.Position == "" {
			errs = append(errs, domain.FieldError{Field: "position", Message: "must not be empty"})
		} else if len(*i.Position) > maxPositionLen {
			errs = append(errs, domain.FieldError{Field: "position", Message: "too long (max 100)"})
		}
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
	return i.FullName == nil && i.Email == nil && i.Position == nil &&
		i.Department == nil && i.Status == nil && i.Tags == nil
}

// ListInput holds filter and pagination parameters for listing staff.
type ListInput struct {
	Search     *string
	Status     *domain.StaffStatus
	Department *string
	Limit      int
	Offset     int
}

func validateEmail(email string, optional bool) []domain.FieldError {
	if email == "" {
		if optional {
			return nil
		}
		return []domain.FieldError{{Field: "email", Message: "required"}}
	}
	if len(email) > maxEmailLen {
		return []domain.FieldError{{Field: "email", Message: "too long (max 254)"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []domain.FieldError{{Field: "email", Message: "invalid address"}}
	}
	return nil
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
