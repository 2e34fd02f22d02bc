package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// resolveAssignee validates a raw assignee id from a request body and
// mutates the in-memory task's assignment fields accordingly. It performs
// no writes itself; the caller owns the write sequencing, which differs
// between create, update and delete.
//
// An empty id is an explicit unassignment, not an error. The returned id is
// nil for an unassigned task.
func (s *taskService) resolveAssignee(ctx context.Context, task *model.Task, raw string) (*uuid.UUID, error) {
	if raw == "" {
		task.Unassign()
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidAssignee
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssigneeNotFound
		}
		return nil, err
	}
	task.AssignTo(user)
	return task.AssignedUser, nil
}
