package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient     UserRole = "CLIENT"
	RoleTeamMember UserRole = "TEAM_MEMBER"
	RoleAdmin      UserRole = "ADMIN"
	RoleOwner      UserRole = "OWNER"
)

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	CompanyName    string         `gorm:"type:varchar(255)" json:"company_name"`
	Role           UserRole       `gorm:"type:varchar(20);not null;default:'CLIENT'" json:"role"`
	OrganizationID *uint64        `gorm:"index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization *Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Permissions  *UserPermissions `gorm:"foreignKey:UserID" json:"permissions,omitempty"`
	Subscription *Subscription    `gorm:"foreignKey:UserID" json:"subscription,omitempty"`
}

// UserPermissions is a typed capability set attached to a user.
type UserPermissions struct {
	UserID            uint64    `gorm:"primarykey" json:"user_id"`
	CanInviteMembers  bool      `gorm:"not null;default:false" json:"can_invite_members"`
	CanManageProjects bool      `gorm:"not null;default:false" json:"can_manage_projects"`
	CanManageBilling  bool      `gorm:"not null;default:false" json:"can_manage_billing"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
