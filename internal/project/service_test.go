package project_test

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
	"timesheet-management/internal/project"
)

func TestProjectService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Service Suite")
}

type mockProjectRepository struct {
	projects map[int64]*projectDatamodel.Project
	nextID   int64

	deletedTimesheetsFor []int64
	deletedProjects      []int64
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: make(map[int64]*projectDatamodel.Project),
		nextID:   1,
	}
}

func (m *mockProjectRepository) Create(p *projectDatamodel.Project) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	p, exists := m.projects[id]
	if !exists {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepository) FindAll(filters project.ListFilters) ([]*projectDatamodel.Project, error) {
	out := make([]*projectDatamodel.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	p := m.projects[id]
	for key, value := range fields {
		switch key {
		case "name":
			p.Name = value.(string)
		case "department":
			p.Department = value.(string)
		case "start_date":
			p.StartDate = value.(time.Time)
		case "end_date":
			end := value.(time.Time)
			p.EndDate = &end
		case "status":
			p.Status = value.(string)
		case "updated_at":
			p.UpdatedAt = value.(time.Time)
		}
	}
	return nil
}

func (m *mockProjectRepository) DeleteTimesheets(projectID int64) error {
	m.deletedTimesheetsFor = append(m.deletedTimesheetsFor, projectID)
	return nil
}

func (m *mockProjectRepository) Delete(id int64) error {
	delete(m.projects, id)
	m.deletedProjects = append(m.deletedProjects, id)
	return nil
}

var _ = Describe("ProjectService", func() {
	var (
		repo    *mockProjectRepository
		service *project.Service
		actor   *auth.User
	)

	strPtr := func(s string) *string { return &s }
	datePtr := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	seedProject := func(name, department, status string) *projectDatamodel.Project {
		p := &projectDatamodel.Project{
			Name:       name,
			Department: department,
			StartDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:     status,
		}
		Expect(repo.Create(p)).To(Succeed())
		return p
	}

	BeforeEach(func() {
		repo = newMockProjectRepository()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = project.NewService(repo, lg)
		actor = &auth.User{ID: 99, Email: "actor@mail.com"}
	})

	Describe("Create", func() {
		It("stores the project and returns it with an id", func() {
			dto := &project.DTO{
				Name:       strPtr("Website Redesign"),
				Department: strPtr("Design"),
				StartDate:  datePtr(2025, 2, 1),
				Status:     strPtr(project.StatusActive),
			}

			created, err := service.Create(actor, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Status).To(Equal(project.StatusActive))
			Expect(created.EndDate).To(BeNil())
		})

		It("denies unauthenticated actors", func() {
			_, err := service.Create(nil, &project.DTO{Name: strPtr("X")})
			Expect(err).To(Equal(internal.ErrActionUnauthorized))
		})
	})

	Describe("FindByID", func() {
		It("returns nil without error when the project does not exist", func() {
			found, err := service.FindByID(actor, 12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})

		It("returns the project when it exists", func() {
			seeded := seedProject("Website Redesign", "Design", project.StatusActive)

			found, err := service.FindByID(actor, seeded.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Website Redesign"))
		})
	})

	Describe("ParseFilters", func() {
		It("keeps only recognized keys", func() {
			filters := service.ParseFilters(map[string]string{
				"name":       "redesign",
				"status":     project.StatusActive,
				"department": "Design",
				"bogus":      "x",
			})
			Expect(filters.Name).NotTo(BeNil())
			Expect(filters.Status).NotTo(BeNil())
			Expect(filters.Department).NotTo(BeNil())
			Expect(filters.StartDate).To(BeNil())
		})

		It("parses date filters and drops broken ones", func() {
			filters := service.ParseFilters(map[string]string{
				"start_date": "2025-02-01",
				"end_date":   "not-a-date",
			})
			Expect(filters.StartDate).NotTo(BeNil())
			Expect(filters.EndDate).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("only touches present fields", func() {
			seeded := seedProject("Website Redesign", "Design", project.StatusActive)

			updated, err := service.Update(actor, seeded.ID, &project.DTO{Status: strPtr(project.StatusCompleted)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(project.StatusCompleted))
			Expect(updated.Name).To(Equal("Website Redesign"))
			Expect(updated.Department).To(Equal("Design"))
		})

		It("returns nil without error when the project does not exist", func() {
			updated, err := service.Update(actor, 12345, &project.DTO{Status: strPtr(project.StatusCompleted)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("deletes the project and its timesheets", func() {
			seeded := seedProject("Website Redesign", "Design", project.StatusActive)

			deleted, err := service.Delete(actor, seeded.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())
			Expect(repo.deletedTimesheetsFor).To(Equal([]int64{seeded.ID}))
			Expect(repo.deletedProjects).To(Equal([]int64{seeded.ID}))
		})

		It("returns false without error when the project does not exist", func() {
			deleted, err := service.Delete(actor, 12345)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeFalse())
		})
	})

	Describe("DTO validation", func() {
		It("rejects an end date before the start date", func() {
			dto := &project.DTO{
				Name:       strPtr("Website Redesign"),
				Department: strPtr("Design"),
				StartDate:  datePtr(2025, 2, 1),
				EndDate:    datePtr(2025, 1, 1),
				Status:     strPtr(project.StatusActive),
			}
			Expect(dto.ValidateForCreate()).NotTo(BeNil())
		})

		It("accepts an end date equal to the start date", func() {
			dto := &project.DTO{
				Name:       strPtr("Website Redesign"),
				Department: strPtr("Design"),
				StartDate:  datePtr(2025, 2, 1),
				EndDate:    datePtr(2025, 2, 1),
				Status:     strPtr(project.StatusActive),
			}
			Expect(dto.ValidateForCreate()).To(BeNil())
		})

		It("rejects an unknown status", func() {
			dto := &project.DTO{Status: strPtr("archived")}
			Expect(dto.ValidateForUpdate()).NotTo(BeNil())
		})
	})
})
