package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	return s == TaskPending || s == TaskInProgress || s == TaskDone
}

// Task is a staff work item. Staff see and update only tasks assigned to
// them; admin-or-higher roles bypass the ownership check.
type Task struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       TaskStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	CreatedByID  uuid.UUID  `gorm:"type:uuid" json:"created_by_id"`
	DueDate      *time.Time `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
