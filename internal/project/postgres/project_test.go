package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
	"timesheet-management/internal/project"
)

func TestProjectRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Repository Suite")
}

var _ = Describe("ProjectRepository", func() {
	var (
		db   *gorm.DB
		repo project.RepositoryAPI
	)

	strPtr := func(s string) *string { return &s }

	newProject := func(name, department, status string, start time.Time) *projectDatamodel.Project {
		return &projectDatamodel.Project{
			Name:       name,
			Department: department,
			StartDate:  start,
			Status:     status,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&userDatamodel.User{}, &projectDatamodel.Project{}, &timesheetDatamodel.Timesheet{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewProjectRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("GetByID", func() {
		It("loads the assigned members", func() {
			member := &userDatamodel.User{
				FirstName:    "Jane",
				LastName:     "Doe",
				DateOfBirth:  time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC),
				Gender:       "female",
				Email:        "jane@mail.com",
				PasswordHash: "hashed",
			}
			Expect(db.Create(member).Error).To(Succeed())

			p := newProject("Website Redesign", "Design", "active", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
			Expect(repo.Create(p)).To(Succeed())
			Expect(db.Exec("INSERT INTO project_user (project_id, user_id) VALUES (?, ?)", p.ID, member.ID).Error).To(Succeed())

			found, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Users).To(HaveLen(1))
			Expect(found.Users[0].Email).To(Equal("jane@mail.com"))
		})

		It("returns nil, nil for a missing id", func() {
			found, err := repo.GetByID(12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("FindAll", func() {
		BeforeEach(func() {
			Expect(repo.Create(newProject("Website Redesign", "Design", "active", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(repo.Create(newProject("Mobile App", "Engineering", "active", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(repo.Create(newProject("Brand Refresh", "Design", "completed", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
		})

		It("matches name as a case-insensitive substring", func() {
			found, err := repo.FindAll(project.ListFilters{Name: strPtr("REDESIGN")})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
		})

		It("intersects department and status", func() {
			found, err := repo.FindAll(project.ListFilters{
				Department: strPtr("design"),
				Status:     strPtr("active"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Name).To(Equal("Website Redesign"))
		})

		It("matches start_date by calendar day", func() {
			day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
			found, err := repo.FindAll(project.ListFilters{StartDate: &day})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Name).To(Equal("Mobile App"))
		})
	})

	Describe("UpdateFields", func() {
		It("changes only the given columns", func() {
			p := newProject("Website Redesign", "Design", "active", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
			Expect(repo.Create(p)).To(Succeed())

			err := repo.UpdateFields(p.ID, map[string]interface{}{"status": "completed"})
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal("completed"))
			Expect(found.Name).To(Equal("Website Redesign"))
		})
	})

	Describe("Delete and DeleteTimesheets", func() {
		It("removes the project and only its timesheets", func() {
			p := newProject("Website Redesign", "Design", "active", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
			other := newProject("Mobile App", "Engineering", "active", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
			Expect(repo.Create(p)).To(Succeed())
			Expect(repo.Create(other)).To(Succeed())

			for _, pid := range []int64{p.ID, p.ID, other.ID} {
				entry := &timesheetDatamodel.Timesheet{
					UserID:    1,
					ProjectID: pid,
					TaskName:  "Development",
					Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
					Hours:     8,
				}
				Expect(db.Create(entry).Error).To(Succeed())
			}

			Expect(repo.DeleteTimesheets(p.ID)).To(Succeed())
			Expect(repo.Delete(p.ID)).To(Succeed())

			found, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())

			var orphaned int64
			Expect(db.Model(&timesheetDatamodel.Timesheet{}).Where("project_id = ?", p.ID).Count(&orphaned).Error).To(Succeed())
			Expect(orphaned).To(BeZero())

			var remaining int64
			Expect(db.Model(&timesheetDatamodel.Timesheet{}).Count(&remaining).Error).To(Succeed())
			Expect(remaining).To(Equal(int64(1)))
		})
	})
})
