package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type seedUser struct {
	name  string
	email string
}

type seedTask struct {
	name        string
	description string
	deadlineIn  time.Duration
	completed   bool
	assignee    string // seed user email, or empty for unassigned
}

var seedUsers = []seedUser{
	{name: "Ada Lovelace", email: "ada@example.com"},
	{name: "Grace Hopper", email: "grace@example.com"},
	{name: "Alan Turing", email: "alan@example.com"},
}

var seedTasks = []seedTask{
	{name: "Write onboarding checklist", description: "Cover accounts, hardware and repo access", deadlineIn: 48 * time.Hour, assignee: "ada@example.com"},
	{name: "Review deployment runbook", deadlineIn: 72 * time.Hour, assignee: "ada@example.com"},
	{name: "Rotate staging credentials", deadlineIn: 24 * time.Hour, assignee: "grace@example.com"},
	{name: "Archive Q2 reports", deadlineIn: 7 * 24 * time.Hour, completed: true, assignee: "grace@example.com"},
	{name: "Upgrade CI runners", description: "Blocked on the infra ticket", deadlineIn: 96 * time.Hour, assignee: "alan@example.com"},
	{name: "Draft retro agenda", deadlineIn: 120 * time.Hour},
}

// The seeder drives the service layer rather than inserting rows directly,
// so assignment creates go through the same pendingTasks synchronization as
// live requests.
func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	users := service.NewUserService(userRepo, taskRepo, nil)
	tasks := service.NewTaskService(taskRepo, userRepo, nil)

	ctx := context.Background()

	idsByEmail := make(map[string]string, len(seedUsers))
	for _, su := range seedUsers {
		user, err := users.Create(ctx, &service.UserInput{Name: su.name, Email: su.email})
		if err != nil {
			log.Printf("Skipping user %s: %v", su.email, err)
			continue
		}
		idsByEmail[su.email] = user.ID.String()
		log.Printf("Created user %s (%s)", user.Name, user.ID)
	}

	created := 0
	for _, st := range seedTasks {
		deadline, _ := json.Marshal(time.Now().Add(st.deadlineIn).UnixMilli())
		completed, _ := json.Marshal(st.completed)
		in := &service.TaskInput{
			Name:        st.name,
			Description: st.description,
			Deadline:    deadline,
			Completed:   completed,
		}
		if id, ok := idsByEmail[st.assignee]; ok {
			in.AssignedUser = &id
		}
		task, err := tasks.Create(ctx, in)
		if err != nil {
			log.Printf("Skipping task %q: %v", st.name, err)
			continue
		}
		created++
		log.Printf("Created task %q assigned to %s", task.Name, task.AssignedUserName)
	}

	fmt.Printf("Seed complete: %d users, %d tasks\n", len(idsByEmail), created)
}
