package user

import (
	"encoding/json"
	"net/mail"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/core/common/payload"
)

// DTO is a tri-state snapshot of user fields: a nil pointer means the
// field was not sent at all, which is distinct from a sent zero value.
// Updates driven by a DTO only ever touch present fields.
type DTO struct {
	ID          *int64
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Gender      *string
	Email       *string
	Password    *string
}

// UnmarshalJSON accepts both snake_case and camelCase keys for the same
// logical field; snake_case wins when both are present.
func (d *DTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if d.ID, err = payload.PickInt64(raw, "id"); err != nil {
		return err
	}
	if d.FirstName, err = payload.PickString(raw, "first_name", "firstName"); err != nil {
		return err
	}
	if d.LastName, err = payload.PickString(raw, "last_name", "lastName"); err != nil {
		return err
	}
	if d.DateOfBirth, err = payload.PickDate(raw, "date_of_birth", "dateOfBirth"); err != nil {
		return err
	}
	if d.Gender, err = payload.PickString(raw, "gender"); err != nil {
		return err
	}
	if d.Email, err = payload.PickString(raw, "email"); err != nil {
		return err
	}
	if d.Password, err = payload.PickString(raw, "password"); err != nil {
		return err
	}
	return nil
}

// Updates emits only the present fields keyed by column name. The password
// is deliberately excluded: the service hashes it and writes password_hash
// itself, so plaintext can never reach the store by accident.
func (d *DTO) Updates() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.FirstName != nil {
		fields["first_name"] = *d.FirstName
	}
	if d.LastName != nil {
		fields["last_name"] = *d.LastName
	}
	if d.DateOfBirth != nil {
		fields["date_of_birth"] = *d.DateOfBirth
	}
	if d.Gender != nil {
		fields["gender"] = *d.Gender
	}
	if d.Email != nil {
		fields["email"] = *d.Email
	}
	return fields
}

// Merge returns a DTO where other's present fields override this one's;
// the id resolves self-first. Retained for partial-merge flows even though
// the service update path applies Updates directly.
func (d DTO) Merge(other DTO) DTO {
	out := d
	if d.ID == nil {
		out.ID = other.ID
	}
	if other.FirstName != nil {
		out.FirstName = other.FirstName
	}
	if other.LastName != nil {
		out.LastName = other.LastName
	}
	if other.DateOfBirth != nil {
		out.DateOfBirth = other.DateOfBirth
	}
	if other.Gender != nil {
		out.Gender = other.Gender
	}
	if other.Email != nil {
		out.Email = other.Email
	}
	if other.Password != nil {
		out.Password = other.Password
	}
	return out
}

// ValidateForCreate requires every field a new user row needs.
func (d *DTO) ValidateForCreate() *internal.AppError {
	var fieldErrors []internal.ValidationError

	if d.FirstName == nil || *d.FirstName == "" {
		fieldErrors = appendFieldError(fieldErrors, "first_name", "first_name is required", internal.ErrCodeValidationFailed)
	}
	if d.LastName == nil || *d.LastName == "" {
		fieldErrors = appendFieldError(fieldErrors, "last_name", "last_name is required", internal.ErrCodeValidationFailed)
	}
	if d.DateOfBirth == nil {
		fieldErrors = appendFieldError(fieldErrors, "date_of_birth", "date_of_birth is required", internal.ErrCodeValidationFailed)
	}
	if d.Gender == nil {
		fieldErrors = appendFieldError(fieldErrors, "gender", "gender is required", internal.ErrCodeValidationFailed)
	}
	if d.Email == nil {
		fieldErrors = appendFieldError(fieldErrors, "email", "email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == nil || len(*d.Password) < 8 {
		fieldErrors = appendFieldError(fieldErrors, "password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}

	fieldErrors = append(fieldErrors, d.presentFieldErrors()...)

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// ValidateForUpdate only checks the fields that were actually sent.
func (d *DTO) ValidateForUpdate() *internal.AppError {
	fieldErrors := d.presentFieldErrors()
	if d.Password != nil && len(*d.Password) < 8 {
		fieldErrors = appendFieldError(fieldErrors, "password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

func (d *DTO) presentFieldErrors() []internal.ValidationError {
	var fieldErrors []internal.ValidationError
	if d.Gender != nil && !ValidGender(*d.Gender) {
		fieldErrors = appendFieldError(fieldErrors, "gender", "gender must be one of male, female, other", internal.ErrCodeInvalidGender)
	}
	if d.Email != nil {
		if _, err := mail.ParseAddress(*d.Email); err != nil {
			fieldErrors = appendFieldError(fieldErrors, "email", "email must be a valid email address", internal.ErrCodeValidationFailed)
		}
	}
	return fieldErrors
}

func appendFieldError(errs []internal.ValidationError, field, message string, code internal.ErrorCode) []internal.ValidationError {
	return append(errs, internal.ValidationError{Field: field, Message: message, Code: string(code)})
}
