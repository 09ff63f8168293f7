package auth

import (
	"net/mail"
	"time"

	"timesheet-management/internal"
)

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	var fieldErrors []internal.ValidationError
	if d.Email == "" {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "email", Message: "email is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Password == "" {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "password", Message: "password is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// RegisterDTO is the transport shape for the public registration endpoint.
// Dates arrive as YYYY-MM-DD strings and are parsed during validation.
type RegisterDTO struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	var fieldErrors []internal.ValidationError

	addError := func(field, message string, code internal.ErrorCode) {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: field, Message: message, Code: string(code),
		})
	}

	if d.FirstName == "" {
		addError("first_name", "first_name is required", internal.ErrCodeValidationFailed)
	}
	if d.LastName == "" {
		addError("last_name", "last_name is required", internal.ErrCodeValidationFailed)
	}
	if d.Email == "" {
		addError("email", "email is required", internal.ErrCodeValidationFailed)
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		addError("email", "email must be a valid email address", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		addError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	switch d.Gender {
	case "male", "female", "other":
	case "":
		addError("gender", "gender is required", internal.ErrCodeValidationFailed)
	default:
		addError("gender", "gender must be one of male, female, other", internal.ErrCodeInvalidGender)
	}
	if d.DateOfBirth == "" {
		addError("date_of_birth", "date_of_birth is required", internal.ErrCodeValidationFailed)
	} else if _, err := d.ParseDateOfBirth(); err != nil {
		addError("date_of_birth", "date_of_birth must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

func (d RegisterDTO) ParseDateOfBirth() (time.Time, error) {
	return time.Parse("2006-01-02", d.DateOfBirth)
}
