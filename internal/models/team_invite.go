package models

import "time"

// TeamInvite is a single-use invitation to join an organization.
//
// Lifecycle: pending (used_at null, not expired) -> used (used_at set,
// terminal) or expired (used_at null, expires_at passed). An expired row is
// kept so a resend can refresh it in place.
type TeamInvite struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Email          string     `gorm:"type:varchar(255);index;not null" json:"email"`
	Token          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'TEAM_MEMBER'" json:"role"`
	OrganizationID uint64     `gorm:"index;not null" json:"organization_id"`
	CreatedByID    uint64     `gorm:"not null" json:"created_by_id"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt         *time.Time `json:"used_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (i *TeamInvite) IsUsed() bool {
	return i.UsedAt != nil
}

func (i *TeamInvite) IsExpired() bool {
	return i.UsedAt == nil && time.Now().After(i.ExpiresAt)
}

func (i *TeamInvite) IsPending() bool {
	return i.UsedAt == nil && time.Now().Before(i.ExpiresAt)
}
