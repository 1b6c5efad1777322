package rentals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundihub/fundihub-backend/pkg/config"
	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
	"github.com/fundihub/fundihub-backend/pkg/outbox"
)

func setupRentalsTestDB(t *testing.T, name string) *dbpkg.Client {
	t.Helper()

	client, err := dbpkg.New(context.Background(), config.DBConfig{
		Driver: dbpkg.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	equipment := `
CREATE TABLE IF NOT EXISTS equipment (
  id TEXT PRIMARY KEY,
  provider_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  daily_rate_cents INTEGER NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  image_urls TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	rentals := `
CREATE TABLE IF NOT EXISTS equipment_rentals (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  equipment_id TEXT NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	outboxEvents := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	for _, schema := range []string{equipment, rentals, outboxEvents} {
		require.NoError(t, client.DB().Exec(schema).Error)
	}
	return client
}

func newRentalsService(t *testing.T, client *dbpkg.Client) Service {
	t.Helper()

	svc, err := NewService(client, outbox.NewService(outbox.NewRepository(client.DB()), nil))
	require.NoError(t, err)
	return svc
}

func seedEquipment(t *testing.T, client *dbpkg.Client, available bool) *models.Equipment {
	t.Helper()

	row := models.Equipment{
		ID:             uuid.New(),
		ProviderID:     uuid.New(),
		Name:           "Concrete mixer",
		DailyRateCents: 10000,
		IsAvailable:    true,
	}
	require.NoError(t, client.DB().Create(&row).Error)
	if !available {
		require.NoError(t, client.DB().Model(&models.Equipment{}).
			Where("id = ?", row.ID).
			UpdateColumn("is_available", false).Error)
		row.IsAvailable = false
	}
	return &row
}

func seedRental(t *testing.T, client *dbpkg.Client, equipment *models.Equipment, status enums.RentalStatus) *models.EquipmentRental {
	t.Helper()

	start := time.Now().AddDate(0, 0, 3)
	row := models.EquipmentRental{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		ProviderID:  equipment.ProviderID,
		EquipmentID: equipment.ID,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     start.AddDate(0, 0, 2).Format("2006-01-02"),
		TotalCents:  equipment.DailyRateCents * 3,
		Status:      status,
	}
	require.NoError(t, client.DB().Create(&row).Error)
	return &row
}

func equipmentAvailable(t *testing.T, client *dbpkg.Client, id uuid.UUID) bool {
	t.Helper()

	var row models.Equipment
	require.NoError(t, client.DB().First(&row, "id = ?", id).Error)
	return row.IsAvailable
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestTransitionApprovalReservesEquipment(t *testing.T) {
	client := setupRentalsTestDB(t, "rentals_approve")
	svc := newRentalsService(t, client)
	equipment := seedEquipment(t, client, true)
	rental := seedRental(t, client, equipment, enums.RentalStatusPending)

	dto, err := svc.Transition(context.Background(), adminActor(), rental.ID, enums.RentalStatusActive)
	require.NoError(t, err)
	assert.Equal(t, enums.RentalStatusActive, dto.Status)
	assert.False(t, equipmentAvailable(t, client, equipment.ID))
}

func TestTransitionCompletionReleasesEquipment(t *testing.T) {
	client := setupRentalsTestDB(t, "rentals_complete")
	svc := newRentalsService(t, client)
	equipment := seedEquipment(t, client, false)
	rental := seedRental(t, client, equipment, enums.RentalStatusActive)

	dto, err := svc.Transition(context.Background(), adminActor(), rental.ID, enums.RentalStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.RentalStatusCompleted, dto.Status)
	assert.True(t, equipmentAvailable(t, client, equipment.ID))
}

func TestTransitionActiveCannotCancel(t *testing.T) {
	client := setupRentalsTestDB(t, "rentals_no_active_cancel")
	svc := newRentalsService(t, client)
	equipment := seedEquipment(t, client, false)
	rental := seedRental(t, client, equipment, enums.RentalStatusActive)

	_, err := svc.Transition(context.Background(), adminActor(), rental.ID, enums.RentalStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.False(t, equipmentAvailable(t, client, equipment.ID), "a rejected cancel must not release the equipment")
}

func TestTransitionApprovalConflictsWhenUnavailable(t *testing.T) {
	client := setupRentalsTestDB(t, "rentals_unavailable")
	svc := newRentalsService(t, client)
	equipment := seedEquipment(t, client, false)
	rental := seedRental(t, client, equipment, enums.RentalStatusPending)

	_, err := svc.Transition(context.Background(), adminActor(), rental.ID, enums.RentalStatusActive)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestTransitionPendingCancelKeepsEquipmentUntouched(t *testing.T) {
	client := setupRentalsTestDB(t, "rentals_pending_cancel")
	svc := newRentalsService(t, client)
	equipment := seedEquipment(t, client, true)
	rental := seedRental(t, client, equipment, enums.RentalStatusPending)

	dto, err := svc.Transition(context.Background(), adminActor(), rental.ID, enums.RentalStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.RentalStatusCancelled, dto.Status)
	assert.True(t, equipmentAvailable(t, client, equipment.ID))
}
