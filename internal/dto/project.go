package dto

import (
	"time"

	"github.com/tarostudio/portal-api/internal/models"
)

// ProjectTaskDTO represents a project task in API responses
type ProjectTaskDTO struct {
	ID       uint64            `json:"id"`
	Title    string            `json:"title"`
	Status   models.TaskStatus `json:"status"`
	DueDate  *time.Time        `json:"due_date"`
	Assignee *UserDTO          `json:"assignee,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	DueDate     *time.Time           `json:"due_date"`
	Tasks       []ProjectTaskDTO     `json:"tasks,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects []ProjectDTO `json:"projects"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int64        `json:"total"`
}

// ToProjectTaskDTO converts a ProjectTask model to ProjectTaskDTO
func ToProjectTaskDTO(task models.ProjectTask) ProjectTaskDTO {
	dto := ProjectTaskDTO{
		ID:      task.ID,
		Title:   task.Title,
		Status:  task.Status,
		DueDate: task.DueDate,
	}
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		DueDate:     project.DueDate,
		CreatedAt:   project.CreatedAt,
	}
	for _, task := range project.Tasks {
		dto.Tasks = append(dto.Tasks, ToProjectTaskDTO(task))
	}
	return dto
}
