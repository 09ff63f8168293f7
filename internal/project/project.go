package project

import (
	"time"

	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	"timesheet-management/internal/user"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusCancelled
}

// Project is the domain view of a project. Users holds the assigned
// members when the record was loaded with them; nil otherwise.
type Project struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Department string       `json:"department"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    *time.Time   `json:"end_date"`
	Status     string       `json:"status"`
	Users      []*user.User `json:"users,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsMember reports whether the given user is assigned to the project.
// It only consults loaded members.
func (p *Project) IsMember(userID int64) bool {
	for _, u := range p.Users {
		if u != nil && u.ID == userID {
			return true
		}
	}
	return false
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	out := &Project{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.Department,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if len(p.Users) > 0 {
		out.Users = make([]*user.User, len(p.Users))
		for i := range p.Users {
			out.Users[i] = user.FromDataModel(&p.Users[i])
		}
	}
	return out
}

func FromDataModelSlice(records []*projectDatamodel.Project) []*Project {
	result := make([]*Project, len(records))
	for i, p := range records {
		result[i] = FromDataModel(p)
	}
	return result
}
