package repository

import (
	"time"

	"github.com/tarostudio/portal-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithPermissions creates a user and their permission row within a
	// single transaction.
	CreateWithPermissions(user *models.User, perms *models.UserPermissions) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// FindPermissions finds the permission set for a user
	FindPermissions(userID uint64) (*models.UserPermissions, error)

	// FindSubscription finds a user's subscription
	FindSubscription(userID uint64) (*models.Subscription, error)
}

// TeamRepository defines the interface for organization and invite data access
type TeamRepository interface {
	// FindOrganizationByID finds an organization by ID
	FindOrganizationByID(id uint64) (*models.Organization, error)

	// FindOrganizationByOwner finds the organization owned by a user
	FindOrganizationByOwner(ownerID uint64) (*models.Organization, error)

	// EnsureOrganization returns the owner's organization, creating it and
	// attaching the owner atomically when none exists yet.
	EnsureOrganization(owner *models.User, name string) (*models.Organization, error)

	// CountMembers counts users attached to an organization, excluding the owner
	CountMembers(organizationID, ownerID uint64) (int64, error)

	// FindMemberByEmail finds an organization member by email
	FindMemberByEmail(organizationID uint64, email string) (*models.User, error)

	// FindUnusedInvite finds an unused invite for (email, organization),
	// whether or not it has expired
	FindUnusedInvite(organizationID uint64, email string) (*models.TeamInvite, error)

	// FindInviteByToken finds an invite by its token
	FindInviteByToken(token string) (*models.TeamInvite, error)

	// ListPendingInvites lists unused, unexpired invites for an organization
	ListPendingInvites(organizationID uint64) ([]models.TeamInvite, error)

	// CreateInvite creates a new invite
	CreateInvite(invite *models.TeamInvite) error

	// UpdateInvite updates an invite in place
	UpdateInvite(invite *models.TeamInvite) error

	// ConsumeInvite marks an invite used and attaches the accepting user to
	// the organization within a single transaction. Returns
	// ErrInviteAlreadyUsed if another caller consumed it first.
	ConsumeInvite(invite *models.TeamInvite, user *models.User) error

	// DeleteUnusedInvitesExpiredBefore removes unused invites whose expiry
	// passed before the cutoff. Returns the number of rows removed.
	DeleteUnusedInvitesExpiredBefore(cutoff time.Time) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OrganizationID uint64
	Status         *models.ProjectStatus
	Page           int
	PageSize       int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete soft deletes a project and its tasks
	Delete(id uint64) error

	// CreateTask creates a task under a project
	CreateTask(task *models.ProjectTask) error

	// FindTaskByID finds a project task by ID
	FindTaskByID(id uint64, preload ...string) (*models.ProjectTask, error)

	// UpdateTask updates a project task
	UpdateTask(task *models.ProjectTask) error

	// ListTasksDueBetween lists unfinished tasks due in the given window,
	// with project and organization owner preloaded
	ListTasksDueBetween(from, to time.Time) ([]models.ProjectTask, error)
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	// Upsert creates a lead or refreshes the message of an existing one
	Upsert(lead *models.Lead) error

	// List returns all captured leads, newest first
	List() ([]models.Lead, error)
}
