package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnassignedName is the sentinel AssignedUserName for tasks with no assignee.
const UnassignedName = "unassigned"

// Task represents a unit of work, optionally assigned to a user.
// AssignedUser is the authoritative side of the assignment relation;
// AssignedUserName and User.PendingTasks are denormalized from it.
type Task struct {
	ID               uuid.UUID  `json:"_id" gorm:"type:char(36);primaryKey"`
	Name             string     `json:"name" gorm:"size:255;not null"`
	Description      string     `json:"description" gorm:"type:text"`
	Deadline         time.Time  `json:"deadline" gorm:"not null;index"`
	Completed        bool       `json:"completed" gorm:"default:false;index"`
	AssignedUser     *uuid.UUID `json:"assignedUser" gorm:"type:char(36);index"`
	AssignedUserName string     `json:"assignedUserName" gorm:"size:255;default:'unassigned'"`
	DateCreated      time.Time  `json:"dateCreated" gorm:"autoCreateTime"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.AssignedUserName == "" {
		t.AssignedUserName = UnassignedName
	}
	return nil
}

// Unassign clears the assignment, restoring the sentinel name.
func (t *Task) Unassign() {
	t.AssignedUser = nil
	t.AssignedUserName = UnassignedName
}

// AssignTo points the task at the given user.
func (t *Task) AssignTo(u *User) {
	id := u.ID
	t.AssignedUser = &id
	t.AssignedUserName = u.Name
}
