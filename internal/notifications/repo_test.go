package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, createdAt time.Time) *models.Notification {
	t.Helper()

	row := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationBookingCreated,
		Title:     "New booking",
		Message:   "A customer booked your plumbing service.",
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestListForUserOrdersNewestFirst(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedNotification(t, db, userID, base)
	middle := seedNotification(t, db, userID, base.Add(time.Hour))
	newest := seedNotification(t, db, userID, base.Add(2*time.Hour))
	seedNotification(t, db, uuid.New(), base.Add(3*time.Hour))

	rows, err := repo.ListForUser(ctx, userID, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)
}

func TestListForUserCursor(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	oldest := seedNotification(t, db, userID, base)
	middle := seedNotification(t, db, userID, base.Add(time.Hour))
	seedNotification(t, db, userID, base.Add(2*time.Hour))

	cursor := &pagination.Cursor{CreatedAt: middle.CreatedAt, ID: middle.ID}
	rows, err := repo.ListForUser(ctx, userID, cursor, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Date(2026, 5, 3, 8, 0, 0, 0, time.UTC)
	first := seedNotification(t, db, userID, now)
	seedNotification(t, db, userID, now.Add(time.Minute))

	count, err := repo.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	affected, err := repo.MarkRead(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Marking again is a no-op.
	affected, err = repo.MarkRead(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	count, err = repo.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	row := seedNotification(t, db, ownerID, time.Now().UTC())

	affected, err := repo.MarkRead(ctx, uuid.New(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	exists, err := repo.Exists(ctx, ownerID, row.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New(), row.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now().UTC()
	seedNotification(t, db, userID, now)
	seedNotification(t, db, userID, now.Add(time.Second))

	require.NoError(t, repo.MarkAllRead(ctx, userID))

	count, err := repo.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
