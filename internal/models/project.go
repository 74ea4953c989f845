package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusDiscovery   ProjectStatus = "DISCOVERY"
	ProjectStatusDesign      ProjectStatus = "DESIGN"
	ProjectStatusDevelopment ProjectStatus = "DEVELOPMENT"
	ProjectStatusReview      ProjectStatus = "REVIEW"
	ProjectStatusLaunched    ProjectStatus = "LAUNCHED"
)

type Project struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         ProjectStatus  `gorm:"type:varchar(20);not null;default:'DISCOVERY'" json:"status"`
	DueDate        *time.Time     `json:"due_date"`
	OrganizationID uint64         `gorm:"index;not null" json:"organization_id"`
	CreatedByID    uint64         `gorm:"not null" json:"created_by_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization  `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    User          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Tasks        []ProjectTask `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
