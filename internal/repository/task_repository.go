package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/query"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Find(ctx context.Context, opts *query.Options) ([]model.Task, error)
	Count(ctx context.Context, opts *query.Options) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	// Assign points a single task at a user, overwriting any previous
	// assignment (last write wins).
	Assign(ctx context.Context, taskID uuid.UUID, user *model.User) error
	// UnassignAllFor clears the assignment of every task referencing the
	// user, as one bulk update.
	UnassignAllFor(ctx context.Context, userID uuid.UUID) error
	// RenameAssignee refreshes the denormalized assignee name on every task
	// referencing the user.
	RenameAssignee(ctx context.Context, userID uuid.UUID, name string) error
	Delete(ctx context.Context, task *model.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Find(ctx context.Context, opts *query.Options) ([]model.Task, error) {
	tx, err := applyOptions(r.db.WithContext(ctx), opts, taskFields)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context, opts *query.Options) (int64, error) {
	tx, err := applyFilter(r.db.WithContext(ctx).Model(&model.Task{}), opts, taskFields)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Assign(ctx context.Context, taskID uuid.UUID, user *model.User) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"assigned_user":      user.ID,
			"assigned_user_name": user.Name,
		}).Error
}

func (r *taskRepository) UnassignAllFor(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_user = ?", userID).
		Updates(map[string]any{
			"assigned_user":      nil,
			"assigned_user_name": model.UnassignedName,
		}).Error
}

func (r *taskRepository) RenameAssignee(ctx context.Context, userID uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_user = ?", userID).
		Update("assigned_user_name", name).Error
}

func (r *taskRepository) Delete(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}
