package users

import (
	"github.com/google/uuid"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db/models"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
)

// UserDTO is the public shape of a user; credentials never leave the service.
type UserDTO struct {
	ID    uuid.UUID  `json:"id"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
	Name  string     `json:"name"`
	Phone string     `json:"phone"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Role         enums.Role
	Name         string
	Phone        string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		Name:  u.Name,
		Phone: u.Phone,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleCustomer
	}
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Name:         c.Name,
		Phone:        c.Phone,
	}
}
