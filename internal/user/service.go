package user

import (
	"log/slog"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/auth"
	"timesheet-management/internal/core/common/payload"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
)

// RepositoryAPI defines the data access methods for users.
type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	FindAll(filters ListFilters) ([]*userDatamodel.User, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	DeleteTimesheets(userID int64) error
	Delete(id int64) error
}

// ListFilters are the recognized findAll filters; nil means not supplied.
// String fields match case-insensitive substrings, gender is an equality
// match and date_of_birth matches a calendar day.
type ListFilters struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Gender      *string
	DateOfBirth *time.Time
}

// Service orchestrates policy checks and persistence for users.
type Service struct {
	repo   RepositoryAPI
	policy Policy
	hasher auth.PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher auth.PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: Policy{},
		hasher: hasher,
		logger: logger,
	}
}

// Create persists a new user. The plaintext password is hashed before it
// ever reaches the store.
func (s *Service) Create(actor *auth.User, dto *DTO) (*User, error) {
	if !s.policy.CanCreate(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	record := &userDatamodel.User{}
	if dto.FirstName != nil {
		record.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		record.LastName = *dto.LastName
	}
	if dto.DateOfBirth != nil {
		record.DateOfBirth = *dto.DateOfBirth
	}
	if dto.Gender != nil {
		record.Gender = *dto.Gender
	}
	if dto.Email != nil {
		record.Email = *dto.Email
	}
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			s.logger.Error("create user: password hashing failed", "error", err)
			return nil, internal.NewInternalError("Failed to create user. Please try again.", err)
		}
		record.PasswordHash = hash
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create user: insert failed", "error", err)
		return nil, internal.NewInternalError("Failed to create user. Please try again.", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

// FindByID fetches a user by primary key. A missing row is not an
// authorization failure: it returns nil, nil.
func (s *Service) FindByID(actor *auth.User, id int64) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("find user: fetch failed", "error", err, "user_id", id)
		return nil, internal.NewInternalError("Failed to retrieve user. Please try again.", err)
	}
	if record == nil {
		return nil, nil
	}

	target := FromDataModel(record)
	if !s.policy.CanView(actor, target) {
		return nil, internal.ErrActionUnauthorized
	}
	return target, nil
}

// FindAll lists users matching every supplied filter (logical AND).
// Unrecognized filter keys are ignored by ParseFilters.
func (s *Service) FindAll(actor *auth.User, filters ListFilters) ([]*User, error) {
	if !s.policy.CanViewAny(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	records, err := s.repo.FindAll(filters)
	if err != nil {
		s.logger.Error("list users: query failed", "error", err)
		return nil, internal.NewInternalError("Failed to retrieve users. Please try again.", err)
	}
	return FromDataModelSlice(records), nil
}

// ParseFilters builds ListFilters from raw query parameters, keeping only
// the recognized keys. Unparsable values are dropped with a warning.
func (s *Service) ParseFilters(query map[string]string) ListFilters {
	var filters ListFilters
	for key, value := range query {
		if value == "" {
			continue
		}
		v := value
		switch key {
		case "first_name":
			filters.FirstName = &v
		case "last_name":
			filters.LastName = &v
		case "email":
			filters.Email = &v
		case "gender":
			filters.Gender = &v
		case "date_of_birth":
			if t, err := payload.ParseDate(v); err == nil {
				filters.DateOfBirth = &t
			} else {
				s.logger.Warn("list users: ignoring unparsable date_of_birth filter", "value", v)
			}
		}
	}
	return filters
}

// Update applies only the DTO's present fields. Absent rows return nil
// without consulting the policy.
func (s *Service) Update(actor *auth.User, id int64, dto *DTO) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("update user: fetch failed", "error", err, "user_id", id)
		return nil, internal.NewInternalError("Failed to update user. Please try again.", err)
	}
	if record == nil {
		return nil, nil
	}

	if !s.policy.CanUpdate(actor, FromDataModel(record)) {
		return nil, internal.ErrActionUnauthorized
	}

	updates := dto.Updates()
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			s.logger.Error("update user: password hashing failed", "error", err)
			return nil, internal.NewInternalError("Failed to update user. Please try again.", err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateFields(id, updates); err != nil {
			s.logger.Error("update user: update failed", "error", err, "user_id", id)
			return nil, internal.NewInternalError("Failed to update user. Please try again.", err)
		}
	}

	refreshed, err := s.repo.GetByID(id)
	if err != nil || refreshed == nil {
		s.logger.Error("update user: refetch failed", "error", err, "user_id", id)
		return nil, internal.NewInternalError("Failed to update user. Please try again.", err)
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID, "fields", len(updates))
	return FromDataModel(refreshed), nil
}

// Delete removes a user and their timesheets. Absent rows return false.
func (s *Service) Delete(actor *auth.User, id int64) (bool, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("delete user: fetch failed", "error", err, "user_id", id)
		return false, internal.NewInternalError("Failed to delete user. Please try again.", err)
	}
	if record == nil {
		return false, nil
	}

	if !s.policy.CanDelete(actor, FromDataModel(record)) {
		return false, internal.ErrActionUnauthorized
	}

	// Dependent timesheets go first; the FK cascade covers the crash
	// window between the two statements.
	if err := s.repo.DeleteTimesheets(id); err != nil {
		s.logger.Error("delete user: timesheet cleanup failed", "error", err, "user_id", id)
		return false, internal.NewInternalError("Failed to delete user. Please try again.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("delete user: delete failed", "error", err, "user_id", id)
		return false, internal.NewInternalError("Failed to delete user. Please try again.", err)
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	return true, nil
}
