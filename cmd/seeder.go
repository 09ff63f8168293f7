package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	projectDatamodel "timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "timesheet-management/internal/core/datamodel/user"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeeder()
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

func runSeeder() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer sqlxDB.Close()

	db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init gorm: %v", err)
	}

	if clearData {
		fmt.Println("Clearing existing data...")
		for _, stmt := range []string{
			"DELETE FROM timesheets",
			"DELETE FROM project_user",
			"DELETE FROM projects",
			"DELETE FROM users",
		} {
			if err := db.Exec(stmt).Error; err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	firstNames := []string{"Alice", "Bob", "Carol", "David", "Erin", "Frank", "Grace", "Henry", "Ivy", "Jack"}
	lastNames := []string{"Anderson", "Brown", "Clark", "Davis", "Evans", "Foster", "Gray", "Hill", "Irwin", "Jones"}
	genders := []string{"male", "female", "other"}
	departments := []string{"Engineering", "Design", "Marketing", "Finance", "Operations"}
	statuses := []string{"active", "completed", "cancelled"}
	tasks := []string{"Development", "Code review", "Planning", "Testing", "Documentation", "Support"}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*userDatamodel.User, 0, len(firstNames))
	for i, first := range firstNames {
		u := &userDatamodel.User{
			FirstName:    first,
			LastName:     lastNames[i],
			DateOfBirth:  time.Date(1970+rng.Intn(35), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC),
			Gender:       genders[rng.Intn(len(genders))],
			Email:        fmt.Sprintf("%s.%s@mail.com", strings.ToLower(first), strings.ToLower(lastNames[i])),
			PasswordHash: string(hash),
		}
		if err := db.Create(u).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Email, err)
		}
		users = append(users, u)
	}
	fmt.Printf("Seeded %d users (password: password)\n", len(users))

	projects := make([]*projectDatamodel.Project, 0, 15)
	for i := 0; i < 15; i++ {
		start := time.Now().AddDate(0, 0, -rng.Intn(365))
		p := &projectDatamodel.Project{
			Name:       fmt.Sprintf("Project %02d", i+1),
			Department: departments[rng.Intn(len(departments))],
			StartDate:  start,
			Status:     statuses[rng.Intn(len(statuses))],
		}
		if rng.Intn(2) == 0 {
			end := start.AddDate(0, rng.Intn(12)+1, 0)
			p.EndDate = &end
		}
		if err := db.Create(p).Error; err != nil {
			log.Fatalf("failed to seed project %s: %v", p.Name, err)
		}

		// Assign 2-5 random members.
		for _, idx := range rng.Perm(len(users))[:2+rng.Intn(4)] {
			if err := db.Exec("INSERT INTO project_user (project_id, user_id) VALUES (?, ?)", p.ID, users[idx].ID).Error; err != nil {
				log.Fatalf("failed to assign member to %s: %v", p.Name, err)
			}
		}
		projects = append(projects, p)
	}
	fmt.Printf("Seeded %d projects\n", len(projects))

	total := 0
	for _, u := range users {
		for i := 0; i < 5+rng.Intn(6); i++ {
			t := &timesheetDatamodel.Timesheet{
				UserID:    u.ID,
				ProjectID: projects[rng.Intn(len(projects))].ID,
				TaskName:  tasks[rng.Intn(len(tasks))],
				Date:      time.Now().AddDate(0, 0, -rng.Intn(90)),
				Hours:     float64(1+rng.Intn(8)) + 0.5*float64(rng.Intn(2)),
			}
			if err := db.Create(t).Error; err != nil {
				log.Fatalf("failed to seed timesheet for %s: %v", u.Email, err)
			}
			total++
		}
	}
	fmt.Printf("Seeded %d timesheets\n", total)
}
