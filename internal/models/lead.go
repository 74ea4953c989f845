package models

import "time"

// Lead is a prospect captured through the public chat widget.
type Lead struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Message   string    `gorm:"type:text" json:"message"`
	Source    string    `gorm:"type:varchar(50);not null;default:'chat'" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
