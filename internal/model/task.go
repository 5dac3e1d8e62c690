package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskStatus is a closed enumeration of task board columns. Transitions
// are unconstrained: the status is a label, not a guarded state machine.
type TaskStatus string

const (
	TaskStatusTodo      TaskStatus = "TODO"
	TaskStatusInProcess TaskStatus = "INPROCESS"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// ParseTaskStatus validates a raw status string.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProcess, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// TaskPriority is a closed enumeration of task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// ParseTaskPriority validates a raw priority string.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), true
	}
	return "", false
}

// Task belongs to a project and owns its assignee rows.
type Task struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string                       `json:"title" gorm:"size:255;not null"`
	Description string                       `json:"description" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string]  `json:"tags"`
	Priority    TaskPriority                 `json:"priority" gorm:"size:10;not null;default:'LOW'"`
	Status      TaskStatus                   `json:"status" gorm:"size:20;not null;default:'TODO'"`
	StartDate   time.Time                    `json:"start_date"`
	EndDate     time.Time                    `json:"end_date"`
	ProjectID   uuid.UUID                    `json:"project_id" gorm:"type:char(36);not null;index"`
	CreatedBy   uuid.UUID                    `json:"created_by" gorm:"type:char(36);not null"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`

	// Relations
	Assignees []TaskAssignee `json:"assignees" gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TaskAssignee links a user to a task as a responsible party. The
// (task, user) pair is unique; the set is replaced wholesale on task
// update.
type TaskAssignee struct {
	ID     uint      `json:"-" gorm:"primaryKey"`
	TaskID uuid.UUID `json:"task_id" gorm:"type:char(36);not null;uniqueIndex:idx_task_user"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_task_user"`

	User User `json:"user" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// HasAssignee reports whether the user is assigned to the task. The
// Assignees relation must be loaded.
func (t *Task) HasAssignee(userID uuid.UUID) bool {
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
