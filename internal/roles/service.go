package roles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

const lastAdminMessage = "cannot remove the last remaining admin"

// Service defines the role administration behavior used by admin controllers.
type Service interface {
	Grant(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) error
	Revoke(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]enums.UserRole, error)
}

type service struct {
	db *dbpkg.Client
}

// NewService constructs a role administration service.
func NewService(client *dbpkg.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	return &service{db: client}, nil
}

func (s *service) Grant(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		granter := actorID
		return repo.Grant(ctx, userID, role, &granter)
	})
}

func (s *service) Revoke(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if role == enums.UserRoleAdmin {
			holds, err := repo.HasRole(ctx, userID, enums.UserRoleAdmin)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
			}
			if holds {
				admins, err := repo.CountActiveAdmins(ctx)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
				}
				if admins <= 1 {
					return pkgerrors.New(pkgerrors.CodeStateConflict, lastAdminMessage)
				}
			}
		}

		return repo.Revoke(ctx, userID, role)
	})
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]enums.UserRole, error) {
	repo := NewRepository(s.db.DB())
	roles, err := repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}
	return roles, nil
}
