package roles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundihub/fundihub-backend/pkg/config"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

func setupRolesTestDB(t *testing.T, name string) *dbpkg.Client {
	t.Helper()

	client, err := dbpkg.New(context.Background(), config.DBConfig{
		Driver: dbpkg.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT,
  address_line TEXT,
  city TEXT,
  avatar_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	userRoles := `
CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  granted_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, client.DB().Exec(users).Error)
	require.NoError(t, client.DB().Exec(userRoles).Error)
	require.NoError(t, client.DB().Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_user_roles_user_role ON user_roles (user_id, role)").Error)
	return client
}

func seedUserWithRole(t *testing.T, client *dbpkg.Client, role enums.UserRole, active bool) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FullName:     "Role Holder",
		IsActive:     true,
	}
	require.NoError(t, client.DB().Create(&user).Error)
	if !active {
		require.NoError(t, client.DB().Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("is_active", false).Error)
	}

	assignment := models.UserRole{ID: uuid.New(), UserID: user.ID, Role: role}
	require.NoError(t, client.DB().Create(&assignment).Error)
	return user.ID
}

func TestRevokeLastAdminRejected(t *testing.T) {
	client := setupRolesTestDB(t, "roles_last_admin")
	svc, err := NewService(client)
	require.NoError(t, err)
	ctx := context.Background()

	adminID := seedUserWithRole(t, client, enums.UserRoleAdmin, true)

	err = svc.Revoke(ctx, adminID, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	holds, err := NewRepository(client.DB()).HasRole(ctx, adminID, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.True(t, holds, "the last admin assignment must survive")
}

func TestRevokeAdminWithAnotherRemaining(t *testing.T) {
	client := setupRolesTestDB(t, "roles_two_admins")
	svc, err := NewService(client)
	require.NoError(t, err)
	ctx := context.Background()

	firstID := seedUserWithRole(t, client, enums.UserRoleAdmin, true)
	secondID := seedUserWithRole(t, client, enums.UserRoleAdmin, true)

	require.NoError(t, svc.Revoke(ctx, firstID, enums.UserRoleAdmin))

	holds, err := NewRepository(client.DB()).HasRole(ctx, firstID, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.False(t, holds)

	// The survivor is now the last admin.
	err = svc.Revoke(ctx, secondID, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestRevokeInactiveAdminsDoNotCount(t *testing.T) {
	client := setupRolesTestDB(t, "roles_inactive_admin")
	svc, err := NewService(client)
	require.NoError(t, err)
	ctx := context.Background()

	activeID := seedUserWithRole(t, client, enums.UserRoleAdmin, true)
	seedUserWithRole(t, client, enums.UserRoleAdmin, false)

	err = svc.Revoke(ctx, activeID, enums.UserRoleAdmin)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestRevokeNonAdminRoleSkipsGuard(t *testing.T) {
	client := setupRolesTestDB(t, "roles_non_admin")
	svc, err := NewService(client)
	require.NoError(t, err)
	ctx := context.Background()

	userID := seedUserWithRole(t, client, enums.UserRoleServiceProvider, true)

	require.NoError(t, svc.Revoke(ctx, userID, enums.UserRoleServiceProvider))

	holds, err := NewRepository(client.DB()).HasRole(ctx, userID, enums.UserRoleServiceProvider)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestRevokeInvalidRole(t *testing.T) {
	client := setupRolesTestDB(t, "roles_invalid")
	svc, err := NewService(client)
	require.NoError(t, err)

	err = svc.Revoke(context.Background(), uuid.New(), enums.UserRole("root"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
