package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/cache"
	"taskboard/internal/model"
	"taskboard/internal/query"
	"taskboard/internal/repository"
)

// TaskInput carries a task create/update request body. Deadline and
// Completed stay raw because the wire format is deliberately loose: the
// deadline may be epoch milliseconds or date text, completed may be a
// boolean or the words "true"/"false". AssignedUser is nil or empty for an
// unassigned task.
type TaskInput struct {
	Name         string
	Description  string
	Deadline     json.RawMessage
	Completed    json.RawMessage
	AssignedUser *string
}

func (in *TaskInput) assignee() string {
	if in.AssignedUser == nil {
		return ""
	}
	return *in.AssignedUser
}

// TaskService exposes task domain operations, including the sequencing that
// keeps User.PendingTasks consistent with Task.AssignedUser.
type TaskService interface {
	List(ctx context.Context, opts *query.Options) ([]model.Task, error)
	Count(ctx context.Context, opts *query.Options) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, in *TaskInput) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, in *TaskInput) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
	cache *cache.Client
}

// NewTaskService builds a TaskService.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, cache *cache.Client) TaskService {
	return &taskService{tasks: tasks, users: users, cache: cache}
}

func (s *taskService) List(ctx context.Context, opts *query.Options) ([]model.Task, error) {
	return s.tasks.Find(ctx, opts)
}

func (s *taskService) Count(ctx context.Context, opts *query.Options) (int64, error) {
	return s.tasks.Count(ctx, opts)
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Create persists the task first so it has a durable id, then pushes that
// id onto the assignee's pending list. A failure on the user-side write is
// surfaced but the task write is not rolled back; the push is idempotent so
// the request is safe to re-drive.
func (s *taskService) Create(ctx context.Context, in *TaskInput) (*model.Task, error) {
	deadline, err := query.CoerceDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	task := &model.Task{
		Name:        in.Name,
		Description: in.Description,
		Deadline:    deadline,
		Completed:   query.CoerceCompleted(in.Completed, false),
	}
	assigneeID, err := s.resolveAssignee(ctx, task, in.assignee())
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	if assigneeID != nil {
		if err := s.users.PushPendingTask(ctx, *assigneeID, task.ID); err != nil {
			return nil, err
		}
		_ = s.cache.Delete(ctx, cache.UserKey(*assigneeID))
	}
	return task, nil
}

// Update captures the previous assignee before mutating, persists the task,
// then reconciles both users' pending lists. When the assignee is unchanged
// no user record is written at all.
func (s *taskService) Update(ctx context.Context, id uuid.UUID, in *TaskInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	previous := task.AssignedUser

	deadline, err := query.CoerceDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	task.Name = in.Name
	task.Description = in.Description
	task.Deadline = deadline
	task.Completed = query.CoerceCompleted(in.Completed, task.Completed)

	current, err := s.resolveAssignee(ctx, task, in.assignee())
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	if !sameAssignee(previous, current) {
		if previous != nil {
			if err := s.pullFrom(ctx, *previous, task.ID); err != nil {
				return nil, err
			}
		}
		if current != nil {
			if err := s.users.PushPendingTask(ctx, *current, task.ID); err != nil {
				return nil, err
			}
			_ = s.cache.Delete(ctx, cache.UserKey(*current))
		}
	}
	return task, nil
}

// Delete captures the assignee, removes the task, then pulls its id from
// the former assignee's pending list. An unassigned task touches no user.
func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return err
	}
	previous := task.AssignedUser

	if err := s.tasks.Delete(ctx, task); err != nil {
		return err
	}
	if previous != nil {
		if err := s.pullFrom(ctx, *previous, task.ID); err != nil {
			return err
		}
	}
	return nil
}

// pullFrom removes a task id from a user's pending list, tolerating a user
// that has itself been deleted in the meantime.
func (s *taskService) pullFrom(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.users.PullPendingTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(userID))
	return nil
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
