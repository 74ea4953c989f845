package constants

import "time"

// Session / context keys
const (
	SessionCookieName = "portal_session"
	ContextKeyUserID  = "user_id"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Invitations
const (
	// InviteTokenBytes is the number of random bytes in an invite token (hex encoded).
	InviteTokenBytes = 16

	// InviteTTL is how long an invitation stays valid after (re)issue.
	InviteTTL = 7 * 24 * time.Hour

	// ExpiredInviteRetention is how long an expired, unused invite row is kept
	// before the sweep removes it. Kept well past the TTL so a resend can
	// still refresh the same row.
	ExpiredInviteRetention = 30 * 24 * time.Hour
)

// Entitlements
const (
	// AdminGrantedSubPrefix marks subscriptions created out-of-band by staff
	// rather than through Stripe checkout.
	AdminGrantedSubPrefix = "admin_"

	DefaultSeatLimit = 1
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
