package project

import (
	"time"

	userDatamodel "timesheet-management/internal/core/datamodel/user"
)

// Project is the persistence model for the projects table. Users is the
// M:N membership relation through the project_user join table.
type Project struct {
	ID         int64                `gorm:"primaryKey"`
	Name       string               `gorm:"column:name;not null"`
	Department string               `gorm:"column:department;not null"`
	StartDate  time.Time            `gorm:"column:start_date;type:date"`
	EndDate    *time.Time           `gorm:"column:end_date;type:date"`
	Status     string               `gorm:"column:status;default:active"`
	Users      []userDatamodel.User `gorm:"many2many:project_user;joinForeignKey:ProjectID;joinReferences:UserID"`
	CreatedAt  time.Time            `gorm:"column:created_at"`
	UpdatedAt  time.Time            `gorm:"column:updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
