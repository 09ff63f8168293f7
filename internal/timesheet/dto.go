package timesheet

import (
	"encoding/json"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/core/common/payload"
)

// DTO is a tri-state snapshot of timesheet fields: a nil pointer means the
// field was not sent, which is distinct from a sent zero value.
type DTO struct {
	ID        *int64
	UserID    *int64
	ProjectID *int64
	TaskName  *string
	Date      *time.Time
	Hours     *float64
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
	if d.UserID, err = payload.PickInt64(raw, "user_id", "userId"); err != nil {
		return err
	}
	if d.ProjectID, err = payload.PickInt64(raw, "project_id", "projectId"); err != nil {
		return err
	}
	if d.TaskName, err = payload.PickString(raw, "task_name", "taskName"); err != nil {
		return err
	}
	if d.Date, err = payload.PickDate(raw, "date"); err != nil {
		return err
	}
	if d.Hours, err = payload.PickFloat64(raw, "hours"); err != nil {
		return err
	}
	return nil
}

// Updates emits only the present fields keyed by column name.
func (d *DTO) Updates() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.UserID != nil {
		fields["user_id"] = *d.UserID
	}
	if d.ProjectID != nil {
		fields["project_id"] = *d.ProjectID
	}
	if d.TaskName != nil {
		fields["task_name"] = *d.TaskName
	}
	if d.Date != nil {
		fields["date"] = *d.Date
	}
	if d.Hours != nil {
		fields["hours"] = *d.Hours
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
	if other.UserID != nil {
		out.UserID = other.UserID
	}
	if other.ProjectID != nil {
		out.ProjectID = other.ProjectID
	}
	if other.TaskName != nil {
		out.TaskName = other.TaskName
	}
	if other.Date != nil {
		out.Date = other.Date
	}
	if other.Hours != nil {
		out.Hours = other.Hours
	}
	return out
}

// ValidateForCreate requires every field a new timesheet row needs.
func (d *DTO) ValidateForCreate() *internal.AppError {
	var fieldErrors []internal.ValidationError

	if d.UserID == nil {
		fieldErrors = appendFieldError(fieldErrors, "user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	if d.ProjectID == nil {
		fieldErrors = appendFieldError(fieldErrors, "project_id", "project_id is required", internal.ErrCodeValidationFailed)
	}
	if d.TaskName == nil || *d.TaskName == "" {
		fieldErrors = appendFieldError(fieldErrors, "task_name", "task_name is required", internal.ErrCodeValidationFailed)
	}
	if d.Date == nil {
		fieldErrors = appendFieldError(fieldErrors, "date", "date is required", internal.ErrCodeValidationFailed)
	}
	if d.Hours == nil {
		fieldErrors = appendFieldError(fieldErrors, "hours", "hours is required", internal.ErrCodeValidationFailed)
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
	if d.Hours != nil && (*d.Hours < 0 || *d.Hours > 24) {
		fieldErrors = appendFieldError(fieldErrors, "hours", "hours must be between 0 and 24", internal.ErrCodeInvalidHours)
	}
	return fieldErrors
}

func appendFieldError(errs []internal.ValidationError, field, message string, code internal.ErrorCode) []internal.ValidationError {
	return append(errs, internal.ValidationError{Field: field, Message: message, Code: string(code)})
}
