package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	"timesheet-management/internal/timesheet"
)

// TimesheetRepository implements timesheet.RepositoryAPI using GORM.
type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) timesheet.RepositoryAPI {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) Create(t *timesheetDatamodel.Timesheet) error {
	return r.db.Create(t).Error
}

// GetByID loads the entry with its owner and its project including the
// project members, which the view policy needs. It returns nil, nil when
// the row does not exist.
func (r *TimesheetRepository) GetByID(id int64) (*timesheetDatamodel.Timesheet, error) {
	var t timesheetDatamodel.Timesheet
	err := r.db.
		Preload("User").
		Preload("Project").
		Preload("Project.Users").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TimesheetRepository) FindAll(f timesheet.ListFilters) ([]*timesheetDatamodel.Timesheet, error) {
	q := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Preload("User").
		Preload("Project")

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.TaskName != nil {
		q = q.Where("LOWER(task_name) LIKE ?", substring(*f.TaskName))
	}
	if f.Date != nil {
		start, end := dayRange(*f.Date)
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	if f.Hours != nil {
		q = q.Where("hours = ?", *f.Hours)
	}

	var timesheets []*timesheetDatamodel.Timesheet
	err := q.Find(&timesheets).Error
	return timesheets, err
}

func (r *TimesheetRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *TimesheetRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&timesheetDatamodel.Timesheet{}).Error
}

func substring(v string) string {
	return "%" + strings.ToLower(v) + "%"
}

// dayRange bounds a calendar day so date filters ignore time-of-day and
// behave the same on postgres and sqlite.
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
