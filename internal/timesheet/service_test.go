package timesheet_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timesheet-management/internal"
	"timesheet-management/internal/auth"
	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
	"timesheet-management/internal/timesheet"
)

func TestTimesheetService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timesheet Service Suite")
}

type mockTimesheetRepository struct {
	timesheets map[int64]*timesheetDatamodel.Timesheet
	projects   map[int64]*projectDatamodel.Project
	nextID     int64

	deleted []int64
}

func newMockTimesheetRepository() *mockTimesheetRepository {
	return &mockTimesheetRepository{
		timesheets: make(map[int64]*timesheetDatamodel.Timesheet),
		projects:   make(map[int64]*projectDatamodel.Project),
		nextID:     1,
	}
}

func (m *mockTimesheetRepository) Create(t *timesheetDatamodel.Timesheet) error {
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.timesheets[t.ID] = t
	return nil
}

// GetByID mimics the eager loading the real repository does: the project
// comes back with its members attached.
func (m *mockTimesheetRepository) GetByID(id int64) (*timesheetDatamodel.Timesheet, error) {
	t, exists := m.timesheets[id]
	if !exists {
		return nil, nil
	}
	copied := *t
	if p, ok := m.projects[t.ProjectID]; ok {
		copied.Project = p
	}
	return &copied, nil
}

func (m *mockTimesheetRepository) FindAll(filters timesheet.ListFilters) ([]*timesheetDatamodel.Timesheet, error) {
	out := make([]*timesheetDatamodel.Timesheet, 0, len(m.timesheets))
	for _, t := range m.timesheets {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTimesheetRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	t := m.timesheets[id]
	for key, value := range fields {
		switch key {
		case "user_id":
			t.UserID = value.(int64)
		case "project_id":
			t.ProjectID = value.(int64)
		case "task_name":
			t.TaskName = value.(string)
		case "date":
			t.Date = value.(time.Time)
		case "hours":
			t.Hours = value.(float64)
		case "updated_at":
			t.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (m *mockTimesheetRepository) Delete(id int64) error {
	delete(m.timesheets, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var _ = Describe("TimesheetService", func() {
	var (
		repo    *mockTimesheetRepository
		service *timesheet.Service
	)

	var (
		owner    = &auth.User{ID: 1, Email: "owner@mail.com"}
		member   = &auth.User{ID: 2, Email: "member@mail.com"}
		outsider = &auth.User{ID: 3, Email: "outsider@mail.com"}
	)

	strPtr := func(s string) *string { return &s }
	intPtr := func(n int64) *int64 { return &n }
	floatPtr := func(f float64) *float64 { return &f }

	seedProject := func(id int64, memberIDs ...int64) {
		p := &projectDatamodel.Project{
			ID:         id,
			Name:       "Website Redesign",
			Department: "Design",
			StartDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:     "active",
		}
		for _, uid := range memberIDs {
			p.Users = append(p.Users, userDatamodel.User{ID: uid})
		}
		repo.projects[id] = p
	}

	seedEntry := func(userID, projectID int64) *timesheetDatamodel.Timesheet {
		t := &timesheetDatamodel.Timesheet{
			UserID:    userID,
			ProjectID: projectID,
			TaskName:  "Development",
			Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Hours:     7.5,
		}
		Expect(repo.Create(t)).To(Succeed())
		return t
	}

	BeforeEach(func() {
		repo = newMockTimesheetRepository()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = timesheet.NewService(repo, lg)
	})

	Describe("Create", func() {
		It("stores an entry and returns it with its associations", func() {
			seedProject(10, owner.ID)
			dto := &timesheet.DTO{
				UserID:    intPtr(owner.ID),
				ProjectID: intPtr(10),
				TaskName:  strPtr("Development"),
				Date:      timePtr(2025, 6, 2),
				Hours:     floatPtr(7.5),
			}

			created, err := service.Create(owner, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Project).NotTo(BeNil())
		})

		It("denies unauthenticated actors", func() {
			_, err := service.Create(nil, &timesheet.DTO{})
			Expect(err).To(Equal(internal.ErrActionUnauthorized))
		})
	})

	Describe("FindByID", func() {
		It("lets the owner view their entry", func() {
			seedProject(10)
			entry := seedEntry(owner.ID, 10)

			found, err := service.FindByID(owner, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.TaskName).To(Equal("Development"))
		})

		It("lets a project member view someone else's entry", func() {
			seedProject(10, member.ID)
			entry := seedEntry(owner.ID, 10)

			found, err := service.FindByID(member, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
		})

		It("denies a user who neither owns the entry nor belongs to its project", func() {
			seedProject(10, member.ID)
			entry := seedEntry(owner.ID, 10)

			found, err := service.FindByID(outsider, entry.ID)
			Expect(found).To(BeNil())
			Expect(err).To(Equal(internal.ErrActionUnauthorized))
		})

		It("returns nil without error when the entry does not exist", func() {
			found, err := service.FindByID(outsider, 12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("lets the owner change present fields only", func() {
			seedProject(10)
			entry := seedEntry(owner.ID, 10)

			updated, err := service.Update(owner, entry.ID, &timesheet.DTO{Hours: floatPtr(4)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Hours).To(Equal(4.0))
			Expect(updated.TaskName).To(Equal("Development"))
		})

		It("denies project members who do not own the entry", func() {
			seedProject(10, member.ID)
			entry := seedEntry(owner.ID, 10)

			updated, err := service.Update(member, entry.ID, &timesheet.DTO{Hours: floatPtr(4)})
			Expect(updated).To(BeNil())
			Expect(err).To(Equal(internal.ErrActionUnauthorized))
		})

		It("returns nil without error when the entry does not exist", func() {
			updated, err := service.Update(owner, 12345, &timesheet.DTO{Hours: floatPtr(4)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("lets the owner delete their entry", func() {
			seedProject(10)
			entry := seedEntry(owner.ID, 10)

			deleted, err := service.Delete(owner, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())
			Expect(repo.deleted).To(Equal([]int64{entry.ID}))
		})

		It("denies project members who do not own the entry", func() {
			seedProject(10, member.ID)
			entry := seedEntry(owner.ID, 10)

			deleted, err := service.Delete(member, entry.ID)
			Expect(deleted).To(BeFalse())
			Expect(err).To(Equal(internal.ErrActionUnauthorized))
		})

		It("returns false without error when the entry does not exist", func() {
			deleted, err := service.Delete(owner, 12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeFalse())
		})
	})

	Describe("ParseFilters", func() {
		It("parses ids, hours and dates and ignores the rest", func() {
			filters := service.ParseFilters(map[string]string{
				"user_id":    "1",
				"project_id": "10",
				"task_name":  "dev",
				"date":       "2025-06-02",
				"hours":      "7.5",
				"bogus":      "x",
			})
			Expect(*filters.UserID).To(Equal(int64(1)))
			Expect(*filters.ProjectID).To(Equal(int64(10)))
			Expect(*filters.TaskName).To(Equal("dev"))
			Expect(*filters.Hours).To(Equal(7.5))
			Expect(filters.Date).NotTo(BeNil())
		})

		It("drops unparsable values", func() {
			filters := service.ParseFilters(map[string]string{
				"user_id": "abc",
				"date":    "junk",
				"hours":   "many",
			})
			Expect(filters.UserID).To(BeNil())
			Expect(filters.Date).To(BeNil())
			Expect(filters.Hours).To(BeNil())
		})
	})

	Describe("DTO validation", func() {
		It("rejects hours outside 0 to 24", func() {
			dto := &timesheet.DTO{Hours: floatPtr(25)}
			Expect(dto.ValidateForUpdate()).NotTo(BeNil())

			dto = &timesheet.DTO{Hours: floatPtr(-1)}
			Expect(dto.ValidateForUpdate()).NotTo(BeNil())
		})

		It("requires user, project, task, date and hours on create", func() {
			appErr := (&timesheet.DTO{}).ValidateForCreate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(422))
		})
	})
})

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
