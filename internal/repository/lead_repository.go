package repository

import (
	"github.com/tarostudio/portal-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeadRepository is a GORM implementation of LeadRepository
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &GormLeadRepository{db: db}
}

// Upsert creates a lead or refreshes the message of an existing one
func (r *GormLeadRepository) Upsert(lead *models.Lead) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "message", "updated_at"}),
	}).Create(lead).Error
}

// List returns all captured leads, newest first
func (r *GormLeadRepository) List() ([]models.Lead, error) {
	var leads []models.Lead
	if err := r.db.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}
