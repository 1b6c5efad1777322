package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FullName    string           `json:"full_name"`
	Phone       *string          `json:"phone,omitempty"`
	AddressLine *string          `json:"address_line,omitempty"`
	City        *string          `json:"city,omitempty"`
	AvatarURL   *string          `json:"avatar_url,omitempty"`
	IsActive    bool             `json:"is_active"`
	Roles       []enums.UserRole `json:"roles"`
	DisplayRole enums.UserRole   `json:"display_role"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	AddressLine  *string
	City         *string
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	roles := make([]enums.UserRole, 0, len(u.Roles))
	for _, assignment := range u.Roles {
		roles = append(roles, assignment.Role)
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		AddressLine: u.AddressLine,
		City:        u.City,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		Roles:       roles,
		DisplayRole: enums.ResolveDisplayRole(roles),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Phone:        c.Phone,
		AddressLine:  c.AddressLine,
		City:         c.City,
		IsActive:     isActive,
	}
}
