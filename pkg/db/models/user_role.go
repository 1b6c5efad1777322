package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// UserRole is one row of the many-to-many user/role assignment.
type UserRole struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_roles_user_role"`
	Role      enums.UserRole `gorm:"column:role;type:user_role;not null;uniqueIndex:uq_user_roles_user_role"`
	GrantedBy *uuid.UUID     `gorm:"column:granted_by;type:uuid"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
