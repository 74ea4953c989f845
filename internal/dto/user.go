package dto

import "github.com/tarostudio/portal-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	CompanyName    string          `json:"company_name,omitempty"`
	Role           models.UserRole `json:"role"`
	OrganizationID *uint64         `json:"organization_id,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		CompanyName:    user.CompanyName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
}
