package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamboard/internal/config"
	"teamboard/internal/db"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const seedPassword = "password123"

type seedUser struct {
	name  string
	email string
}

var seedUsers = []seedUser{
	{name: "Alice Carter", email: "alice@example.com"},
	{name: "Bob Nguyen", email: "bob@example.com"},
	{name: "Carol Mensah", email: "carol@example.com"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.TeamMembership{},
		&model.Task{},
		&model.TaskAssignee{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := make([]*model.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		if existing, err := userRepo.FindByEmail(ctx, su.email); err == nil {
			log.Printf("User %s already exists, skipping", su.email)
			users = append(users, existing)
			continue
		}
		user := &model.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: string(hashed),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", su.email, err)
		}
		log.Printf("Created user %s (%s)", su.name, su.email)
		users = append(users, user)
	}

	owner, member1, member2 := users[0], users[1], users[2]

	project := &model.Project{
		Title:       "Website Relaunch",
		Description: "Redesign and relaunch the marketing site",
		Status:      model.ProjectStatusActive,
		OwnerID:     owner.ID,
	}
	if err := projectRepo.Create(ctx, project, []uuid.UUID{member1.ID, member2.ID}); err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}
	log.Printf("Created project %q with 2 members", project.Title)

	now := time.Now()
	task := &model.Task{
		Title:       "Draft landing page copy",
		Description: "First pass at hero and feature sections",
		Tags:        []string{"content", "marketing"},
		Priority:    model.TaskPriorityMedium,
		Status:      model.TaskStatusTodo,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, 7),
		ProjectID:   project.ID,
		CreatedBy:   owner.ID,
	}
	if err := taskRepo.Create(ctx, task, nil); err != nil {
		log.Fatalf("Failed to create task: %v", err)
	}
	if err := taskRepo.AddAssignee(ctx, task.ID, member1.ID); err != nil {
		log.Printf("Warning: failed to assign %s: %v", member1.Email, err)
	}
	if err := taskRepo.AddAssignee(ctx, task.ID, member2.ID); err != nil {
		log.Printf("Warning: failed to assign %s: %v", member2.Email, err)
	}
	log.Printf("Created task %q with 2 assignees", task.Title)

	log.Println("Seed completed")
}
