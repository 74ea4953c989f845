package repository

import (
	"time"

	"github.com/tarostudio/portal-api/internal/database"
	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: offset,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Tasks").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTask{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return err
		}

		return nil
	})
}

// CreateTask creates a task under a project
func (r *GormProjectRepository) CreateTask(task *models.ProjectTask) error {
	return r.db.Create(task).Error
}

// FindTaskByID finds a project task by ID
func (r *GormProjectRepository) FindTaskByID(id uint64, preload ...string) (*models.ProjectTask, error) {
	var task models.ProjectTask
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateTask updates a project task
func (r *GormProjectRepository) UpdateTask(task *models.ProjectTask) error {
	return r.db.Save(task).Error
}

// ListTasksDueBetween lists unfinished tasks due in the given window
func (r *GormProjectRepository) ListTasksDueBetween(from, to time.Time) ([]models.ProjectTask, error) {
	var tasks []models.ProjectTask
	if err := r.db.
		Preload("Project").
		Preload("Project.Organization").
		Preload("Project.Organization.Owner").
		Where("status <> ? AND due_date >= ? AND due_date < ?", models.TaskStatusDone, from, to).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
