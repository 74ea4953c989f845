package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrProjectNameRequired     = errors.New("project name is required")
	ErrNotOrganizationMember   = errors.New("user is not a member of this organization")
	ErrProjectPermissionDenied = errors.New("you do not have permission to manage projects")
	ErrProjectTaskNotFound     = errors.New("task not found")
	ErrTaskTitleRequired       = errors.New("task title is required")
)

// ProjectService handles client project tracking.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	ActorID     uint64
}

// CreateProject creates a project in the actor's organization.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	user, orgID, err := s.requireMembership(input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireProjectPermission(user.ID); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Status:         models.ProjectStatusDiscovery,
		DueDate:        input.DueDate,
		OrganizationID: orgID,
		CreatedByID:    user.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsInput represents filters for listing projects.
type ListProjectsInput struct {
	ActorID  uint64
	Status   *models.ProjectStatus
	Page     int
	PageSize int
}

// ListProjects returns projects in the actor's organization.
func (s *ProjectService) ListProjects(input ListProjectsInput) ([]models.Project, int64, error) {
	_, orgID, err := s.requireMembership(input.ActorID)
	if err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.List(repository.ProjectFilter{
		OrganizationID: orgID,
		Status:         input.Status,
		Page:           input.Page,
		PageSize:       input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// GetProject returns a project with its tasks, scoped to the actor's organization.
func (s *ProjectService) GetProject(projectID, actorID uint64) (*models.Project, error) {
	_, orgID, err := s.requireMembership(actorID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(projectID, "Tasks", "Tasks.Assignee", "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OrganizationID != orgID {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

// UpdateProjectInput represents input for updating a project.
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	Status       *models.ProjectStatus
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateProject updates a project's fields.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireProjectPermission(actorID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.ClearDueDate {
		project.DueDate = nil
	} else if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its tasks.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	if _, err := s.GetProject(projectID, actorID); err != nil {
		return err
	}

	if err := s.requireProjectPermission(actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// CreateTaskInput represents input for creating a project task.
type CreateTaskInput struct {
	ProjectID  uint64
	ActorID    uint64
	Title      string
	DueDate    *time.Time
	AssigneeID *uint64
}

// CreateTask creates a task under a project.
func (s *ProjectService) CreateTask(input CreateTaskInput) (*models.ProjectTask, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	if _, err := s.GetProject(input.ProjectID, input.ActorID); err != nil {
		return nil, err
	}

	task := &models.ProjectTask{
		Title:      strings.TrimSpace(input.Title),
		Status:     models.TaskStatusTodo,
		DueDate:    input.DueDate,
		ProjectID:  input.ProjectID,
		AssigneeID: input.AssigneeID,
	}

	if err := s.projectRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatus moves a task to a new status.
func (s *ProjectService) UpdateTaskStatus(taskID, actorID uint64, status models.TaskStatus) (*models.ProjectTask, error) {
	task, err := s.projectRepo.FindTaskByID(taskID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	_, orgID, err := s.requireMembership(actorID)
	if err != nil {
		return nil, err
	}
	if task.Project.OrganizationID != orgID {
		return nil, ErrProjectTaskNotFound
	}

	task.Status = status
	if err := s.projectRepo.UpdateTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// requireMembership resolves the actor's organization, failing when they
// have none.
func (s *ProjectService) requireMembership(actorID uint64) (*models.User, uint64, error) {
	user, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to find user: %w", err)
	}

	if user.OrganizationID == nil {
		return nil, 0, ErrNotOrganizationMember
	}

	return user, *user.OrganizationID, nil
}

func (s *ProjectService) requireProjectPermission(actorID uint64) error {
	perms, err := s.userRepo.FindPermissions(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectPermissionDenied
		}
		return fmt.Errorf("failed to find permissions: %w", err)
	}
	if !perms.CanManageProjects {
		return ErrProjectPermissionDenied
	}
	return nil
}
