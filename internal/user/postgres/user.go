package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
	"timesheet-management/internal/user"
)

// UserRepository implements user.RepositoryAPI using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

// GetByID returns nil, nil when the row does not exist; not-found is not
// an error at this layer.
func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindAll(f user.ListFilters) ([]*userDatamodel.User, error) {
	q := r.db.Model(&userDatamodel.User{})

	if f.FirstName != nil {
		q = q.Where("LOWER(first_name) LIKE ?", substring(*f.FirstName))
	}
	if f.LastName != nil {
		q = q.Where("LOWER(last_name) LIKE ?", substring(*f.LastName))
	}
	if f.Email != nil {
		q = q.Where("LOWER(email) LIKE ?", substring(*f.Email))
	}
	if f.Gender != nil {
		q = q.Where("gender = ?", *f.Gender)
	}
	if f.DateOfBirth != nil {
		start, end := dayRange(*f.DateOfBirth)
		q = q.Where("date_of_birth >= ? AND date_of_birth < ?", start, end)
	}

	var users []*userDatamodel.User
	err := q.Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *UserRepository) DeleteTimesheets(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&timesheetDatamodel.Timesheet{}).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
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
