package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
)

// Repository exposes role assignment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns the roles currently assigned to the user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]enums.UserRole, error) {
	var rows []models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]enums.UserRole, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}
	return roles, nil
}

// HasRole reports whether the user currently holds the role.
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

// Grant inserts a role assignment. Duplicate grants are absorbed.
func (r *Repository) Grant(ctx context.Context, userID uuid.UUID, role enums.UserRole, grantedBy *uuid.UUID) error {
	row := models.UserRole{UserID: userID, Role: role, GrantedBy: grantedBy}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil && db.IsUniqueViolation(err, "uq_user_roles_user_role") {
		return nil
	}
	return err
}

// Revoke deletes a role assignment.
func (r *Repository) Revoke(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}

// CountActiveAdmins counts admin assignments on active accounts. The rows are
// locked so concurrent revocations serialize on the last-admin guard instead
// of both passing it.
func (r *Repository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var rows []models.UserRole
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("user_roles.*").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role = ? AND users.is_active = ?", enums.UserRoleAdmin, true).
		Find(&rows).Error
	return int64(len(rows)), err
}

