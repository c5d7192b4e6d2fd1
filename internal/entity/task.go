package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Title       string       `gorm:"type:varchar(255);not null"`
	Description string       `gorm:"type:text;not null;default:''"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'"`
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
