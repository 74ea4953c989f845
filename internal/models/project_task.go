package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

type ProjectTask struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Status     TaskStatus     `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	DueDate    *time.Time     `json:"due_date"`
	ProjectID  uint64         `gorm:"index;not null" json:"project_id"`
	AssigneeID *uint64        `gorm:"index" json:"assignee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
