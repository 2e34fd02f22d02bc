package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a person tasks can be assigned to.
type User struct {
	ID    uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	Name  string    `json:"name" gorm:"size:255;not null"`
	Email string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	// PendingTasks is a denormalized back-reference: the ids of tasks whose
	// AssignedUser points at this user. The task side is authoritative.
	PendingTasks IDList    `json:"pendingTasks" gorm:"serializer:json;type:json"`
	DateCreated  time.Time `json:"dateCreated" gorm:"autoCreateTime"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.PendingTasks == nil {
		u.PendingTasks = IDList{}
	}
	return nil
}

// IDList is a set-like ordered list of record ids stored as a JSON column.
type IDList []uuid.UUID

// Contains reports whether id is present.
func (l IDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Push appends id if absent and reports whether the list changed.
func (l *IDList) Push(id uuid.UUID) bool {
	if l.Contains(id) {
		return false
	}
	*l = append(*l, id)
	return true
}

// Pull removes id if present and reports whether the list changed.
func (l *IDList) Pull(id uuid.UUID) bool {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}
