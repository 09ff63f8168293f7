package timesheet

import (
	"log/slog"
	"strconv"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/auth"
	"timesheet-management/internal/core/common/payload"
	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
)

// RepositoryAPI defines the data access methods for timesheets. Reads
// eager-load the owner and the project with its members so policies can
// judge membership without extra queries.
type RepositoryAPI interface {
	Create(t *timesheetDatamodel.Timesheet) error
	GetByID(id int64) (*timesheetDatamodel.Timesheet, error)
	FindAll(filters ListFilters) ([]*timesheetDatamodel.Timesheet, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	Delete(id int64) error
}

// ListFilters are the recognized findAll filters; nil means not supplied.
// TaskName matches a case-insensitive substring, ids and hours are
// equality matches and date matches a calendar day.
type ListFilters struct {
	UserID    *int64
	ProjectID *int64
	TaskName  *string
	Date      *time.Time
	Hours     *float64
}

// Service orchestrates policy checks and persistence for timesheets.
type Service struct {
	repo   RepositoryAPI
	policy Policy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: Policy{},
		logger: logger,
	}
}

func (s *Service) Create(actor *auth.User, dto *DTO) (*Timesheet, error) {
	if !s.policy.CanCreate(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	record := &timesheetDatamodel.Timesheet{}
	if dto.UserID != nil {
		record.UserID = *dto.UserID
	}
	if dto.ProjectID != nil {
		record.ProjectID = *dto.ProjectID
	}
	if dto.TaskName != nil {
		record.TaskName = *dto.TaskName
	}
	if dto.Date != nil {
		record.Date = *dto.Date
	}
	if dto.Hours != nil {
		record.Hours = *dto.Hours
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create timesheet: insert failed", "error", err)
		return nil, internal.NewInternalError("Failed to create timesheet. Please try again.", err)
	}

	s.logger.Info("timesheet created", "timesheet_id", record.ID, "actor_id", actor.ID)

	created, err := s.repo.GetByID(record.ID)
	if err != nil || created == nil {
		s.logger.Error("create timesheet: refetch failed", "error", err, "timesheet_id", record.ID)
		return nil, internal.NewInternalError("Failed to create timesheet. Please try again.", err)
	}
	return FromDataModel(created), nil
}

// FindByID fetches a timesheet by primary key. A missing row is not an
// authorization failure: it returns nil, nil.
func (s *Service) FindByID(actor *auth.User, id int64) (*Timesheet, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("find timesheet: fetch failed", "error", err, "timesheet_id", id)
		return nil, internal.NewInternalError("Failed to retrieve timesheet. Please try again.", err)
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

// FindAll lists timesheets matching every supplied filter (logical AND).
func (s *Service) FindAll(actor *auth.User, filters ListFilters) ([]*Timesheet, error) {
	if !s.policy.CanViewAny(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	records, err := s.repo.FindAll(filters)
	if err != nil {
		s.logger.Error("list timesheets: query failed", "error", err)
		return nil, internal.NewInternalError("Failed to retrieve timesheets. Please try again.", err)
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
		case "user_id":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				filters.UserID = &n
			} else {
				s.logger.Warn("list timesheets: ignoring unparsable user_id filter", "value", v)
			}
		case "project_id":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				filters.ProjectID = &n
			} else {
				s.logger.Warn("list timesheets: ignoring unparsable project_id filter", "value", v)
			}
		case "task_name":
			filters.TaskName = &v
		case "date":
			if t, err := payload.ParseDate(v); err == nil {
				filters.Date = &t
			} else {
				s.logger.Warn("list timesheets: ignoring unparsable date filter", "value", v)
			}
		case "hours":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				filters.Hours = &f
			} else {
				s.logger.Warn("list timesheets: ignoring unparsable hours filter", "value", v)
			}
		}
	}
	return filters
}

// Update applies only the DTO's present fields and returns the refreshed
// entry with its associations. Absent rows return nil without consulting
// the policy.
func (s *Service) Update(actor *auth.User, id int64, dto *DTO) (*Timesheet, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("update timesheet: fetch failed", "error", err, "timesheet_id", id)
		return nil, internal.NewInternalError("Failed to update timesheet. Please try again.", err)
	}
	if record == nil {
		return nil, nil
	}

	if !s.policy.CanUpdate(actor, FromDataModel(record)) {
		return nil, internal.ErrActionUnauthorized
	}

	updates := dto.Updates()
	if len(updates) > 0 {
		if err := s.repo.UpdateFields(id, updates); err != nil {
			s.logger.Error("update timesheet: update failed", "error", err, "timesheet_id", id)
			return nil, internal.NewInternalError("Failed to update timesheet. Please try again.", err)
		}
	}

	refreshed, err := s.repo.GetByID(id)
	if err != nil || refreshed == nil {
		s.logger.Error("update timesheet: refetch failed", "error", err, "timesheet_id", id)
		return nil, internal.NewInternalError("Failed to update timesheet. Please try again.", err)
	}

	s.logger.Info("timesheet updated", "timesheet_id", id, "actor_id", actor.ID, "fields", len(updates))
	return FromDataModel(refreshed), nil
}

// Delete removes a timesheet. Absent rows return false.
func (s *Service) Delete(actor *auth.User, id int64) (bool, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("delete timesheet: fetch failed", "error", err, "timesheet_id", id)
		return false, internal.NewInternalError("Failed to delete timesheet. Please try again.", err)
	}
	if record == nil {
		return false, nil
	}

	if !s.policy.CanDelete(actor, FromDataModel(record)) {
		return false, internal.ErrActionUnauthorized
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("delete timesheet: delete failed", "error", err, "timesheet_id", id)
		return false, internal.NewInternalError("Failed to delete timesheet. Please try again.", err)
	}

	s.logger.Info("timesheet deleted", "timesheet_id", id, "actor_id", actor.ID)
	return true, nil
}
