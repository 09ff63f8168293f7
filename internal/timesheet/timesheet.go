package timesheet

import (
	"time"

	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	"timesheet-management/internal/project"
	"timesheet-management/internal/user"
)

// Timesheet is the domain view of a logged work entry. User and Project
// carry the eager-loaded owner and project (with its members) when the
// record was read through the service; nil otherwise.
type Timesheet struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	ProjectID int64            `json:"project_id"`
	TaskName  string           `json:"task_name"`
	Date      time.Time        `json:"date"`
	Hours     float64          `json:"hours"`
	User      *user.User       `json:"user,omitempty"`
	Project   *project.Project `json:"project,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func FromDataModel(t *timesheetDatamodel.Timesheet) *Timesheet {
	out := &Timesheet{
		ID:        t.ID,
		UserID:    t.UserID,
		ProjectID: t.ProjectID,
		TaskName:  t.TaskName,
		Date:      t.Date,
		Hours:     t.Hours,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.User != nil {
		out.User = user.FromDataModel(t.User)
	}
	if t.Project != nil {
		out.Project = project.FromDataModel(t.Project)
	}
	return out
}

func FromDataModelSlice(records []*timesheetDatamodel.Timesheet) []*Timesheet {
	result := make([]*Timesheet, len(records))
	for i, t := range records {
		result[i] = FromDataModel(t)
	}
	return result
}
