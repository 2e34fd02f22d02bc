package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

func TestUserService_Create(t *testing.T) {
	t.Run("creates with normalized email", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = uuid.New()
			}).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Create(context.Background(), &UserInput{Name: "Ada", Email: " Ada@Example.COM "})

		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Empty(t, user.PendingTasks)
		mockUsers.AssertExpectations(t)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByEmail", mock.Anything, "ada@example.com").
			Return(&model.User{ID: uuid.New(), Email: "ada@example.com"}, nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Create(context.Background(), &UserInput{Name: "Ada", Email: "ada@example.com"})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		assert.Nil(t, user)
		mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("claiming a task owned by another user pulls it from that owner", func(t *testing.T) {
		taskID := uuid.New()
		prevOwner := uuid.New()

		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByEmail", mock.Anything, "grace@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = uuid.New()
			}).Return(nil)
		mockTasks.On("FindByID", mock.Anything, taskID).
			Return(&model.Task{ID: taskID, AssignedUser: &prevOwner, AssignedUserName: "Ada"}, nil)
		mockUsers.On("PullPendingTask", mock.Anything, prevOwner, taskID).Return(nil)
		mockTasks.On("Assign", mock.Anything, taskID, mock.AnythingOfType("*model.User")).Return(nil)
		mockUsers.On("PushPendingTask", mock.Anything, mock.AnythingOfType("uuid.UUID"), taskID).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Create(context.Background(), &UserInput{
			Name:         "Grace",
			Email:        "grace@example.com",
			PendingTasks: []string{taskID.String()},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.IDList{taskID}, user.PendingTasks)
		mockUsers.AssertCalled(t, "PullPendingTask", mock.Anything, prevOwner, taskID)
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})

	t.Run("claiming tolerates a previous owner already deleted", func(t *testing.T) {
		taskID := uuid.New()
		prevOwner := uuid.New()

		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByEmail", mock.Anything, "grace@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = uuid.New()
			}).Return(nil)
		mockTasks.On("FindByID", mock.Anything, taskID).
			Return(&model.Task{ID: taskID, AssignedUser: &prevOwner}, nil)
		mockUsers.On("PullPendingTask", mock.Anything, prevOwner, taskID).Return(gorm.ErrRecordNotFound)
		mockTasks.On("Assign", mock.Anything, taskID, mock.AnythingOfType("*model.User")).Return(nil)
		mockUsers.On("PushPendingTask", mock.Anything, mock.AnythingOfType("uuid.UUID"), taskID).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		_, err := svc.Create(context.Background(), &UserInput{
			Name:         "Grace",
			Email:        "grace@example.com",
			PendingTasks: []string{taskID.String()},
		})

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})

	t.Run("initial pendingTasks claims listed tasks", func(t *testing.T) {
		existingTask := uuid.New()
		missingTask := uuid.New()
		var userID uuid.UUID

		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*model.User)
				u.ID = uuid.New()
				userID = u.ID
			}).Return(nil)
		mockTasks.On("FindByID", mock.Anything, existingTask).
			Return(&model.Task{ID: existingTask}, nil)
		mockTasks.On("FindByID", mock.Anything, missingTask).
			Return(nil, gorm.ErrRecordNotFound)
		mockTasks.On("Assign", mock.Anything, existingTask, mock.AnythingOfType("*model.User")).Return(nil)
		mockUsers.On("PushPendingTask", mock.Anything, mock.AnythingOfType("uuid.UUID"), existingTask).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Create(context.Background(), &UserInput{
			Name:  "Ada",
			Email: "ada@example.com",
			// missing and malformed ids are skipped silently
			PendingTasks: []string{existingTask.String(), missingTask.String(), "garbage"},
		})

		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, model.IDList{existingTask}, user.PendingTasks)
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})
}

func TestUserService_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("missing user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockUsers, mockTasks, nil)
		_, err := svc.Update(context.Background(), userID, &UserInput{Name: "Ada", Email: "ada@example.com"})

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("rename refreshes denormalized assignee name", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Name: "Ada", Email: "ada@example.com"}, nil)
		mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		mockTasks.On("RenameAssignee", mock.Anything, userID, "Ada Lovelace").Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Update(context.Background(), userID, &UserInput{Name: "Ada Lovelace", Email: "ada@example.com"})

		assert.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.Name)
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})

	t.Run("unchanged email skips the uniqueness lookup", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Name: "Ada", Email: "ada@example.com"}, nil)
		mockUsers.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		_, err := svc.Update(context.Background(), userID, &UserInput{Name: "Ada", Email: "ada@example.com"})

		assert.NoError(t, err)
		mockUsers.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Name: "Ada", Email: "ada@example.com"}, nil)
		mockUsers.On("FindByEmail", mock.Anything, "grace@example.com").
			Return(&model.User{ID: uuid.New(), Email: "grace@example.com"}, nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		_, err := svc.Update(context.Background(), userID, &UserInput{Name: "Ada", Email: "grace@example.com"})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		mockUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("bulk-unassigns tasks before removing the user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Name: "Ada"}, nil)
		mockTasks.On("UnassignAllFor", mock.Anything, userID).Return(nil)
		mockUsers.On("Delete", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		err := svc.Delete(context.Background(), userID)

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockUsers, mockTasks, nil)
		err := svc.Delete(context.Background(), userID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockTasks.AssertNotCalled(t, "UnassignAllFor", mock.Anything, mock.Anything)
	})
}

func TestUserService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("missing user maps to not found", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockUsers, mockTasks, nil)
		_, err := svc.Get(context.Background(), userID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("found user returned", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		mockUsers.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Name: "Ada"}, nil)

		svc := NewUserService(mockUsers, mockTasks, nil)
		user, err := svc.Get(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
	})
}
