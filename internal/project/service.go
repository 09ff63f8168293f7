package project

import (
	"log/slog"
	"time"

	"timesheet-management/internal"
	"timesheet-management/internal/auth"
	"timesheet-management/internal/core/common/payload"
	projectDatamodel "timesheet-management/internal/core/datamodel/project"
)

// RepositoryAPI defines the data access methods for projects.
type RepositoryAPI interface {
	Create(p *projectDatamodel.Project) error
	GetByID(id int64) (*projectDatamodel.Project, error)
	FindAll(filters ListFilters) ([]*projectDatamodel.Project, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	DeleteTimesheets(projectID int64) error
	Delete(id int64) error
}

// ListFilters are the recognized findAll filters; nil means not supplied.
// Name and department match case-insensitive substrings, status is an
// equality match and the dates match a calendar day.
type ListFilters struct {
	Name       *string
	Department *string
	Status     *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Service orchestrates policy checks and persistence for projects.
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

func (s *Service) Create(actor *auth.User, dto *DTO) (*Project, error) {
	if !s.policy.CanCreate(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	record := &projectDatamodel.Project{}
	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.Department != nil {
		record.Department = *dto.Department
	}
	if dto.StartDate != nil {
		record.StartDate = *dto.StartDate
	}
	record.EndDate = dto.EndDate
	if dto.Status != nil {
		record.Status = *dto.Status
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create project: insert failed", "error", err)
		return nil, internal.NewInternalError("Failed to create project. Please try again.", err)
	}

	s.logger.Info("project created", "project_id", record.ID, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

// FindByID fetches a project by primary key. A missing row is not an
// authorization failure: it returns nil, nil.
func (s *Service) FindByID(actor *auth.User, id int64) (*Project, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("find project: fetch failed", "error", err, "project_id", id)
		return nil, internal.NewInternalError("Failed to retrieve project. Please try again.", err)
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

// FindAll lists projects matching every supplied filter (logical AND).
func (s *Service) FindAll(actor *auth.User, filters ListFilters) ([]*Project, error) {
	if !s.policy.CanViewAny(actor) {
		return nil, internal.ErrActionUnauthorized
	}

	records, err := s.repo.FindAll(filters)
	if err != nil {
		s.logger.Error("list projects: query failed", "error", err)
		return nil, internal.NewInternalError("Failed to retrieve projects. Please try again.", err)
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
		case "name":
			filters.Name = &v
		case "department":
			filters.Department = &v
		case "status":
			filters.Status = &v
		case "start_date":
			if t, err := payload.ParseDate(v); err == nil {
				filters.StartDate = &t
			} else {
				s.logger.Warn("list projects: ignoring unparsable start_date filter", "value", v)
			}
		case "end_date":
			if t, err := payload.ParseDate(v); err == nil {
				filters.EndDate = &t
			} else {
				s.logger.Warn("list projects: ignoring unparsable end_date filter", "value", v)
			}
		}
	}
	return filters
}

// Update applies only the DTO's present fields. Absent rows return nil
// without consulting the policy.
func (s *Service) Update(actor *auth.User, id int64, dto *DTO) (*Project, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("update project: fetch failed", "error", err, "project_id", id)
		return nil, internal.NewInternalError("Failed to update project. Please try again.", err)
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
			s.logger.Error("update project: update failed", "error", err, "project_id", id)
			return nil, internal.NewInternalError("Failed to update project. Please try again.", err)
		}
	}

	refreshed, err := s.repo.GetByID(id)
	if err != nil || refreshed == nil {
		s.logger.Error("update project: refetch failed", "error", err, "project_id", id)
		return nil, internal.NewInternalError("Failed to update project. Please try again.", err)
	}

	s.logger.Info("project updated", "project_id", id, "actor_id", actor.ID, "fields", len(updates))
	return FromDataModel(refreshed), nil
}

// Delete removes a project and its timesheets. Absent rows return false.
func (s *Service) Delete(actor *auth.User, id int64) (bool, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("delete project: fetch failed", "error", err, "project_id", id)
		return false, internal.NewInternalError("Failed to delete project. Please try again.", err)
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
		s.logger.Error("delete project: timesheet cleanup failed", "error", err, "project_id", id)
		return false, internal.NewInternalError("Failed to delete project. Please try again.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("delete project: delete failed", "error", err, "project_id", id)
		return false, internal.NewInternalError("Failed to delete project. Please try again.", err)
	}

	s.logger.Info("project deleted", "project_id", id, "actor_id", actor.ID)
	return true, nil
}
