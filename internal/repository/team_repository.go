package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarostudio/portal-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

var (
	// ErrInviteAlreadyUsed is returned when consuming an invite that another
	// caller already consumed.
	ErrInviteAlreadyUsed = errors.New("team repository: invite already used")
	// ErrCreateOrganization is returned when creating an organization fails
	// inside the ensure transaction.
	ErrCreateOrganization = errors.New("team repository: create organization failed")
)

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// FindOrganizationByID finds an organization by ID
func (r *GormTeamRepository) FindOrganizationByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindOrganizationByOwner finds the organization owned by a user
func (r *GormTeamRepository) FindOrganizationByOwner(ownerID uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("owner_id = ?", ownerID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// EnsureOrganization returns the owner's organization, creating it atomically
// when none exists. The unique index on owner_id guarantees two concurrent
// first invites cannot both create one.
func (r *GormTeamRepository) EnsureOrganization(owner *models.User, name string) (*models.Organization, error) {
	var org models.Organization

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", owner.ID).First(&org).Error; err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		org = models.Organization{
			Name:    name,
			OwnerID: owner.ID,
		}
		if err := tx.Create(&org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		owner.OrganizationID = &org.ID
		owner.Role = models.RoleOwner
		if err := tx.Save(owner).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// CountMembers counts users attached to an organization, excluding the owner.
// The owner is accounted for separately by the seat check.
func (r *GormTeamRepository) CountMembers(organizationID, ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("organization_id = ? AND id <> ?", organizationID, ownerID).
		Count(&count).Error
	return count, err
}

// FindMemberByEmail finds an organization member by email
func (r *GormTeamRepository) FindMemberByEmail(organizationID uint64, email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("organization_id = ? AND email = ?", organizationID, email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUnusedInvite finds an unused invite for (email, organization),
// whether or not it has expired
func (r *GormTeamRepository) FindUnusedInvite(organizationID uint64, email string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	if err := r.db.Where("organization_id = ? AND email = ? AND used_at IS NULL", organizationID, email).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindInviteByToken finds an invite by its token
func (r *GormTeamRepository) FindInviteByToken(token string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	if err := r.db.Preload("Organization").Where("token = ?", token).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListPendingInvites lists unused, unexpired invites for an organization
func (r *GormTeamRepository) ListPendingInvites(organizationID uint64) ([]models.TeamInvite, error) {
	var invites []models.TeamInvite
	if err := r.db.Preload("CreatedBy").
		Where("organization_id = ? AND used_at IS NULL AND expires_at > ?", organizationID, time.Now()).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// CreateInvite creates a new invite
func (r *GormTeamRepository) CreateInvite(invite *models.TeamInvite) error {
	return r.db.Create(invite).Error
}

// UpdateInvite updates an invite in place
func (r *GormTeamRepository) UpdateInvite(invite *models.TeamInvite) error {
	return r.db.Save(invite).Error
}

// ConsumeInvite marks an invite used and attaches the accepting user to the
// organization atomically. The conditional update on used_at guarantees that
// of two concurrent accepts only one joins.
func (r *GormTeamRepository) ConsumeInvite(invite *models.TeamInvite, user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.TeamInvite{}).
			Where("id = ? AND used_at IS NULL", invite.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteAlreadyUsed
		}
		invite.UsedAt = &now

		user.OrganizationID = &invite.OrganizationID
		user.Role = invite.Role
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		return nil
	})
}

// DeleteUnusedInvitesExpiredBefore removes unused invites whose expiry passed
// before the cutoff
func (r *GormTeamRepository) DeleteUnusedInvitesExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("used_at IS NULL AND expires_at < ?", cutoff).
		Delete(&models.TeamInvite{})
	return res.RowsAffected, res.Error
}
