package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarostudio/portal-api/internal/dto"
	apierrors "github.com/tarostudio/portal-api/internal/errors"
	"github.com/tarostudio/portal-api/internal/middleware"
	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/services"
)

// TeamHandler coordinates team invitation HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// InviteTeamMember creates or resends a team invitation.
func (h *TeamHandler) InviteTeamMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type InviteRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A valid email address is required")
		return
	}

	result, err := h.teamService.InviteTeamMember(services.InviteTeamMemberInput{
		RequestingUserID: userID,
		Email:            req.Email,
		Role:             models.UserRole(req.Role),
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	message := "Invitation sent"
	if result.Resent {
		message = "Invitation resent"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"invite":  dto.ToTeamInviteDTO(*result.Invite),
	})
}

// ListInvites returns pending invites for the caller's organization.
func (h *TeamHandler) ListInvites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invites, err := h.teamService.ListPendingInvites(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": dto.ToTeamInviteDTOs(invites),
	})
}

// AcceptInvite consumes an invitation token and joins the organization.
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AcceptRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invitation token is required")
		return
	}

	result, err := h.teamService.AcceptInvite(req.Token, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + result.OrganizationName,
		"organization": dto.OrganizationDTO{
			ID:   result.OrganizationID,
			Name: result.OrganizationName,
		},
	})
}

func respondTeamError(c *gin.Context, err error) {
	var seatErr *services.SeatLimitError

	switch {
	case errors.Is(err, services.ErrInviterNotFound):
		apierrors.Unauthorized(c, "Not authenticated")
	case errors.Is(err, services.ErrSubscriptionRequired),
		errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrInvitePermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.As(err, &seatErr):
		apierrors.Forbidden(c, seatErr.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteToken):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInviteAlreadyUsed),
		errors.Is(err, services.ErrInviteExpired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
