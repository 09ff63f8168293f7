package project

import (
	"encoding/json"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/core/common/payload"
)

// DTO is a tri-state snapshot of project fields: a nil pointer means the
// field was not sent, which is distinct from a sent zero value.
type DTO struct {
	ID         *int64
	Name       *string
	Department *string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *string
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
	if d.Name, err = payload.PickString(raw, "name"); err != nil {
		return err
	}
	if d.Department, err = payload.PickString(raw, "department"); err != nil {
		return err
	}
	if d.StartDate, err = payload.PickDate(raw, "start_date", "startDate"); err != nil {
		return err
	}
	if d.EndDate, err = payload.PickDate(raw, "end_date", "endDate"); err != nil {
		return err
	}
	if d.Status, err = payload.PickString(raw, "status"); err != nil {
		return err
	}
	return nil
}

// Updates emits only the present fields keyed by column name.
func (d *DTO) Updates() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.Name != nil {
		fields["name"] = *d.Name
	}
	if d.Department != nil {
		fields["department"] = *d.Department
	}
	if d.StartDate != nil {
		fields["start_date"] = *d.StartDate
	}
	if d.EndDate != nil {
		fields["end_date"] = *d.EndDate
	}
	if d.Status != nil {
		fields["status"] = *d.Status
	}
	return fields
}

// Merge returns a DTO where other's present fields override this one's;
// the id resolves self-first.
func (d DTO) Merge(other DTO) DTO {
	out := d
	if d.ID == nil {
		out.ID = other.ID
	}
	if other.Name != nil {
		out.Name = other.Name
	}
	if other.Department != nil {
		out.Department = other.Department
	}
	if other.StartDate != nil {
		out.StartDate = other.StartDate
	}
	if other.EndDate != nil {
		out.EndDate = other.EndDate
	}
	if other.Status != nil {
		out.Status = other.Status
	}
	return out
}

// ValidateForCreate requires every field a new project row needs.
func (d *DTO) ValidateForCreate() *internal.AppError {
	var fieldErrors []internal.ValidationError

	if d.Name == nil || *d.Name == "" {
		fieldErrors = appendFieldError(fieldErrors, "name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Department == nil || *d.Department == "" {
		fieldErrors = appendFieldError(fieldErrors, "department", "department is required", internal.ErrCodeValidationFailed)
	}
	if d.StartDate == nil {
		fieldErrors = appendFieldError(fieldErrors, "start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	if d.Status == nil {
		fieldErrors = appendFieldError(fieldErrors, "status", "status is required", internal.ErrCodeValidationFailed)
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
	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

func (d *DTO) presentFieldErrors() []internal.ValidationError {
	var fieldErrors []internal.ValidationError
	if d.Status != nil && !ValidStatus(*d.Status) {
		fieldErrors = appendFieldError(fieldErrors, "status", "status must be one of active, completed, cancelled", internal.ErrCodeInvalidStatus)
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		fieldErrors = appendFieldError(fieldErrors, "end_date", "end_date must be on or after start_date", internal.ErrCodeInvalidDateRange)
	}
	return fieldErrors
}

func appendFieldError(errs []internal.ValidationError, field, message string, code internal.ErrorCode) []internal.ValidationError {
	return append(errs, internal.ValidationError{Field: field, Message: message, Code: string(code)})
}
