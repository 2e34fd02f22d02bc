package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/query"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Find(ctx context.Context, opts *query.Options) ([]model.User, error)
	Count(ctx context.Context, opts *query.Options) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User) error
	// PushPendingTask and PullPendingTask maintain the denormalized
	// back-reference list. Both are idempotent no-ops when the list is
	// already in the target state.
	PushPendingTask(ctx context.Context, userID, taskID uuid.UUID) error
	PullPendingTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Find(ctx context.Context, opts *query.Options) ([]model.User, error) {
	tx, err := applyOptions(r.db.WithContext(ctx), opts, userFields)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, opts *query.Options) (int64, error) {
	tx, err := applyFilter(r.db.WithContext(ctx).Model(&model.User{}), opts, userFields)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Delete(user).Error
}

func (r *userRepository) PushPendingTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return r.mutatePendingTasks(ctx, userID, func(list *model.IDList) bool {
		return list.Push(taskID)
	})
}

func (r *userRepository) PullPendingTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return r.mutatePendingTasks(ctx, userID, func(list *model.IDList) bool {
		return list.Pull(taskID)
	})
}

// mutatePendingTasks applies a conditional mutation to a user's pending
// list with the row locked for the duration, so concurrent pushes and
// pulls serialize on a fresh read instead of overwriting each other. The
// write is skipped when the list is already in the target state.
func (r *userRepository) mutatePendingTasks(ctx context.Context, userID uuid.UUID, mutate func(*model.IDList) bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if !mutate(&user.PendingTasks) {
			return nil
		}
		return tx.Model(&user).Update("pending_tasks", user.PendingTasks).Error
	})
}
