package dto

import (
	"time"

	"github.com/tarostudio/portal-api/internal/models"
)

// TeamInviteDTO represents an invitation in API responses. The token is
// never included; it only travels in the acceptance email.
type TeamInviteDTO struct {
	ID        uint64          `json:"id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
	InvitedBy *UserDTO        `json:"invited_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToTeamInviteDTO converts a TeamInvite model to TeamInviteDTO
func ToTeamInviteDTO(invite models.TeamInvite) TeamInviteDTO {
	dto := TeamInviteDTO{
		ID:        invite.ID,
		Email:     invite.Email,
		Role:      invite.Role,
		ExpiresAt: invite.ExpiresAt,
		CreatedAt: invite.CreatedAt,
	}
	if invite.CreatedBy.ID != 0 {
		inviter := ToUserDTO(invite.CreatedBy)
		dto.InvitedBy = &inviter
	}
	return dto
}

// ToTeamInviteDTOs converts a slice of invites
func ToTeamInviteDTOs(invites []models.TeamInvite) []TeamInviteDTO {
	dtos := make([]TeamInviteDTO, len(invites))
	for i, invite := range invites {
		dtos[i] = ToTeamInviteDTO(invite)
	}
	return dtos
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:   org.ID,
		Name: org.Name,
	}
}
