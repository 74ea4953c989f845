package models

import (
	"strings"
	"time"

	"github.com/tarostudio/portal-api/internal/constants"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription mirrors billing state maintained by Stripe webhooks.
// Exactly one per account owner.
type Subscription struct {
	ID                   uint64             `gorm:"primarykey" json:"id"`
	UserID               uint64             `gorm:"uniqueIndex;not null" json:"user_id"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);not null" json:"status"`
	StripePriceID        string             `gorm:"type:varchar(255)" json:"stripe_price_id"`
	StripeSubscriptionID string             `gorm:"type:varchar(255)" json:"stripe_subscription_id"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}

// IsAdminGranted reports whether the subscription was created out-of-band by
// staff rather than through Stripe checkout.
func (s *Subscription) IsAdminGranted() bool {
	return strings.HasPrefix(s.StripeSubscriptionID, constants.AdminGrantedSubPrefix)
}
