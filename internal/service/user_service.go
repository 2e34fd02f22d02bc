package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/cache"
	"taskboard/internal/model"
	"taskboard/internal/query"
	"taskboard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserInput carries a user create/update request body. PendingTasks is nil
// when the field was absent from the body, which means "leave assignments
// alone"; a present list claims each listed task for this user.
type UserInput struct {
	Name         string
	Email        string
	PendingTasks []string
}

// UserService exposes user domain operations.
type UserService interface {
	List(ctx context.Context, opts *query.Options) ([]model.User, error)
	Count(ctx context.Context, opts *query.Options) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, in *UserInput) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in *UserInput) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	cache *cache.Client
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, tasks repository.TaskRepository, cache *cache.Client) UserService {
	return &userService{users: users, tasks: tasks, cache: cache}
}

func (s *userService) List(ctx context.Context, opts *query.Options) ([]model.User, error) {
	return s.users.Find(ctx, opts)
}

func (s *userService) Count(ctx context.Context, opts *query.Options) (int64, error) {
	return s.users.Count(ctx, opts)
}

// Get retrieves a user by ID with caching.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, cache.UserKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, cache.UserKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, in *UserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.checkEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        email,
		PendingTasks: model.IDList{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if in.PendingTasks != nil {
		if err := s.claimTasks(ctx, user, in.PendingTasks); err != nil {
			return nil, err
		}
	}
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, in *UserInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != user.Email {
		if err := s.checkEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
	}
	renamed := in.Name != user.Name
	user.Name = in.Name
	user.Email = email

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if renamed {
		// Keep the denormalized assignee name on this user's tasks current.
		if err := s.tasks.RenameAssignee(ctx, user.ID, user.Name); err != nil {
			return nil, err
		}
	}
	if in.PendingTasks != nil {
		if err := s.claimTasks(ctx, user, in.PendingTasks); err != nil {
			return nil, err
		}
	}
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}

// Delete removes a user, first bulk-unassigning every task that references
// it. The task side is written first so no task is left pointing at a user
// record that no longer exists.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	if err := s.tasks.UnassignAllFor(ctx, user.ID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return nil
}

func (s *userService) checkEmailFree(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}

// claimTasks walks a caller-supplied list of task ids and assigns each to
// the user, last write wins. Malformed and unknown ids are skipped
// silently; the list is best-effort input, not a strict command. A task
// taken over from another user is pulled from that user's pending list so
// the back-reference invariant holds on both sides.
func (s *userService) claimTasks(ctx context.Context, user *model.User, rawIDs []string) error {
	for _, raw := range rawIDs {
		taskID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		task, err := s.tasks.FindByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if prev := task.AssignedUser; prev != nil && *prev != user.ID {
			if err := s.users.PullPendingTask(ctx, *prev, taskID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			_ = s.cache.Delete(ctx, cache.UserKey(*prev))
		}
		if err := s.tasks.Assign(ctx, taskID, user); err != nil {
			return err
		}
		if err := s.users.PushPendingTask(ctx, user.ID, taskID); err != nil {
			return err
		}
		user.PendingTasks.Push(taskID)
	}
	return nil
}
