package timesheet

import (
	"time"

	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
)

// Timesheet is the persistence model for the timesheets table.
type Timesheet struct {
	ID        int64                     `gorm:"primaryKey"`
	UserID    int64                     `gorm:"column:user_id;not null"`
	ProjectID int64                     `gorm:"column:project_id;not null"`
	TaskName  string                    `gorm:"column:task_name;not null"`
	Date      time.Time                 `gorm:"column:date;type:date"`
	Hours     float64                   `gorm:"column:hours;not null"`
	User      *userDatamodel.User       `gorm:"foreignKey:UserID"`
	Project   *projectDatamodel.Project `gorm:"foreignKey:ProjectID"`
	CreatedAt time.Time                 `gorm:"column:created_at"`
	UpdatedAt time.Time                 `gorm:"column:updated_at"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
