package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarostudio/portal-api/internal/constants"
	"github.com/tarostudio/portal-api/internal/entitlement"
	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/notifications"
	"github.com/tarostudio/portal-api/internal/repository"
	"github.com/tarostudio/portal-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInviterNotFound        = errors.New("user not found")
	ErrSubscriptionRequired   = errors.New("an active subscription is required to invite team members")
	ErrNotOwner               = errors.New("only the account owner can invite team members")
	ErrInvitePermissionDenied = errors.New("you do not have permission to invite team members")
	ErrAlreadyMember          = errors.New("this user is already a member of your team")
	ErrInvalidInviteToken     = errors.New("invalid invitation token")
	ErrInviteAlreadyUsed      = errors.New("this invitation has already been used")
	ErrInviteExpired          = errors.New("this invitation has expired")
	ErrTokenGenerationFailed  = errors.New("failed to generate invitation token")
)

// SeatLimitError is returned when an invite would exceed the subscription's
// seat limit. It carries the numbers so the response can report them.
type SeatLimitError struct {
	Limit   int
	Current int
}

func (e *SeatLimitError) Error() string {
	return fmt.Sprintf("your plan allows %d team seats and %d are in use", e.Limit, e.Current)
}

// InviteNotifier dispatches invitation emails. Delivery is best-effort and
// must never fail the invitation itself.
type InviteNotifier interface {
	AcceptURL(token string) string
	DispatchInvite(email notifications.InviteEmail)
}

// TeamService handles team invitations and membership.
type TeamService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	resolver *entitlement.Resolver
	notifier InviteNotifier
}

// NewTeamService creates a new TeamService.
func NewTeamService(userRepo repository.UserRepository, teamRepo repository.TeamRepository, resolver *entitlement.Resolver, notifier InviteNotifier) *TeamService {
	return &TeamService{
		userRepo: userRepo,
		teamRepo: teamRepo,
		resolver: resolver,
		notifier: notifier,
	}
}

// InviteTeamMemberInput represents an invitation request.
type InviteTeamMemberInput struct {
	RequestingUserID uint64
	Email            string
	Role             models.UserRole
}

// InviteResult describes a created or refreshed invitation.
type InviteResult struct {
	Invite *models.TeamInvite
	Resent bool
}

// InviteTeamMember validates and records a new or resent invitation.
//
// Precondition order matters: each failure mode is distinct and the first
// violated one wins.
func (s *TeamService) InviteTeamMember(input InviteTeamMemberInput) (*InviteResult, error) {
	user, err := s.userRepo.FindByID(input.RequestingUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviterNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	sub, err := s.userRepo.FindSubscription(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionRequired
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	if !sub.IsActive() {
		return nil, ErrSubscriptionRequired
	}

	// A user who belongs to an organization may only invite if they own it.
	// This blocks invited team members from inviting further people.
	var org *models.Organization
	if user.OrganizationID != nil {
		org, err = s.teamRepo.FindOrganizationByID(*user.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to find organization: %w", err)
		}
		if org.OwnerID != user.ID {
			return nil, ErrNotOwner
		}
	}

	perms, err := s.userRepo.FindPermissions(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitePermissionDenied
		}
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	if !perms.CanInviteMembers {
		return nil, ErrInvitePermissionDenied
	}

	limit := s.resolver.SeatLimit(sub)
	current := 1
	if org != nil {
		members, err := s.teamRepo.CountMembers(org.ID, org.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count members: %w", err)
		}
		// The owner occupies a seat but is not stored as a member.
		current = int(members) + 1
	}
	if current >= limit {
		return nil, &SeatLimitError{Limit: limit, Current: current}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if org != nil {
		if _, err := s.teamRepo.FindMemberByEmail(org.ID, email); err == nil {
			return nil, ErrAlreadyMember
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
	}

	if org == nil {
		name := user.CompanyName
		if name == "" {
			name = fmt.Sprintf("%s's Team", user.Name)
		}
		org, err = s.teamRepo.EnsureOrganization(user, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, ErrTokenGenerationFailed
	}
	expiresAt := time.Now().Add(constants.InviteTTL)

	role := input.Role
	if role == "" {
		role = models.RoleTeamMember
	}

	var invite *models.TeamInvite
	resent := false

	// An unused invite for this address is refreshed in place, whether or
	// not it has expired. No duplicate rows.
	existing, err := s.teamRepo.FindUnusedInvite(org.ID, email)
	switch {
	case err == nil:
		existing.Token = token
		existing.ExpiresAt = expiresAt
		existing.Role = role
		existing.CreatedByID = user.ID
		if err := s.teamRepo.UpdateInvite(existing); err != nil {
			return nil, fmt.Errorf("failed to refresh invite: %w", err)
		}
		invite = existing
		resent = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		invite = &models.TeamInvite{
			Email:          email,
			Token:          token,
			Role:           role,
			OrganizationID: org.ID,
			CreatedByID:    user.ID,
			ExpiresAt:      expiresAt,
		}
		if err := s.teamRepo.CreateInvite(invite); err != nil {
			return nil, fmt.Errorf("failed to create invite: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	// Best-effort: a delivery failure never rolls back the invite.
	s.notifier.DispatchInvite(notifications.InviteEmail{
		RecipientEmail:   email,
		InviterName:      user.Name,
		OrganizationName: org.Name,
		RoleLabel:        string(role),
		AcceptURL:        s.notifier.AcceptURL(token),
		ExpiresAt:        expiresAt,
	})

	return &InviteResult{Invite: invite, Resent: resent}, nil
}

// AcceptResult describes a successful invitation acceptance.
type AcceptResult struct {
	OrganizationID   uint64
	OrganizationName string
}

// AcceptInvite consumes a token and attaches the accepting user to the
// organization. Safe under concurrent calls for the same token: only one
// caller joins, the rest get ErrInviteAlreadyUsed.
func (s *TeamService) AcceptInvite(token string, acceptingUserID uint64) (*AcceptResult, error) {
	invite, err := s.teamRepo.FindInviteByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteToken
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	if invite.IsUsed() {
		return nil, ErrInviteAlreadyUsed
	}
	if invite.IsExpired() {
		return nil, ErrInviteExpired
	}

	user, err := s.userRepo.FindByID(acceptingUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviterNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.teamRepo.ConsumeInvite(invite, user); err != nil {
		if errors.Is(err, repository.ErrInviteAlreadyUsed) {
			return nil, ErrInviteAlreadyUsed
		}
		return nil, fmt.Errorf("failed to consume invite: %w", err)
	}

	return &AcceptResult{
		OrganizationID:   invite.Organization.ID,
		OrganizationName: invite.Organization.Name,
	}, nil
}

// ListPendingInvites returns unused, unexpired invites for the caller's
// organization. Returns an empty list when the caller has none.
func (s *TeamService) ListPendingInvites(userID uint64) ([]models.TeamInvite, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviterNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.OrganizationID == nil {
		return []models.TeamInvite{}, nil
	}

	invites, err := s.teamRepo.ListPendingInvites(*user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	return invites, nil
}
