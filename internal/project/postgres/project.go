package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	"timesheet-management/internal/project"
)

// ProjectRepository implements project.RepositoryAPI using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *projectDatamodel.Project) error {
	return r.db.Create(p).Error
}

// GetByID loads the project with its assigned members. It returns nil, nil
// when the row does not exist.
func (r *ProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.Preload("Users").Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) FindAll(f project.ListFilters) ([]*projectDatamodel.Project, error) {
	q := r.db.Model(&projectDatamodel.Project{})

	if f.Name != nil {
		q = q.Where("LOWER(name) LIKE ?", substring(*f.Name))
	}
	if f.Department != nil {
		q = q.Where("LOWER(department) LIKE ?", substring(*f.Department))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.StartDate != nil {
		start, end := dayRange(*f.StartDate)
		q = q.Where("start_date >= ? AND start_date < ?", start, end)
	}
	if f.EndDate != nil {
		start, end := dayRange(*f.EndDate)
		q = q.Where("end_date >= ? AND end_date < ?", start, end)
	}

	var projects []*projectDatamodel.Project
	err := q.Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.Model(&projectDatamodel.Project{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *ProjectRepository) DeleteTimesheets(projectID int64) error {
	return r.db.Where("project_id = ?", projectID).Delete(&timesheetDatamodel.Timesheet{}).Error
}

func (r *ProjectRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&projectDatamodel.Project{}).Error
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
