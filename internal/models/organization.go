package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the billing and grouping unit for a client account.
// It is created lazily the first time its owner invites a team member.
type Organization struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uint64         `gorm:"uniqueIndex;not null" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner    User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members  []User       `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Invites  []TeamInvite `gorm:"foreignKey:OrganizationID" json:"invites,omitempty"`
	Projects []Project    `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
}
