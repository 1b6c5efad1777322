package bookings

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

func setupBookingsTestDB(t *testing.T, name string) *dbpkg.Client {
	t.Helper()

	client, err := dbpkg.New(context.Background(), config.DBConfig{
		Driver: dbpkg.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	services := `
CREATE TABLE IF NOT EXISTS services (
  id TEXT PRIMARY KEY,
  provider_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price_cents INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  image_urls TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  booking_date TEXT NOT NULL,
  start_time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
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
	require.NoError(t, client.DB().Exec(services).Error)
	require.NoError(t, client.DB().Exec(bookings).Error)
	require.NoError(t, client.DB().Exec(outboxEvents).Error)
	require.NoError(t, client.DB().Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_provider_slot "+
			"ON bookings (provider_id, booking_date, start_time) WHERE status <> 'cancelled'").Error)
	return client
}

func newBookingsService(t *testing.T, client *dbpkg.Client) Service {
	t.Helper()

	outboxSvc := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(client, defaultGrid(), outboxSvc, 30)
	require.NoError(t, err)
	return svc
}

func seedService(t *testing.T, client *dbpkg.Client, providerID uuid.UUID) uuid.UUID {
	t.Helper()

	row := models.Service{
		ID:         uuid.New(),
		ProviderID: providerID,
		Name:       "Deep cleaning",
		PriceCents: 5000,
		IsActive:   true,
	}
	require.NoError(t, client.DB().Create(&row).Error)
	return row.ID
}

func TestCreateDoubleBookingConflict(t *testing.T) {
	client := setupBookingsTestDB(t, "bookings_conflict")
	svc := newBookingsService(t, client)
	ctx := context.Background()

	providerID := uuid.New()
	serviceID := seedService(t, client, providerID)
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	req := CreateRequest{
		ProviderID:  providerID,
		ServiceID:   serviceID,
		BookingDate: date,
		StartTime:   "10:00",
	}

	first, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusPending, first.Status)

	_, err = svc.Create(ctx, uuid.New(), req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	assert.Equal(t, slotTakenMessage, pkgerrors.As(err).Message())
}

func TestCreateCancelledSlotIsReusable(t *testing.T) {
	client := setupBookingsTestDB(t, "bookings_reuse")
	svc := newBookingsService(t, client)
	ctx := context.Background()

	providerID := uuid.New()
	serviceID := seedService(t, client, providerID)
	date := time.Now().AddDate(0, 0, 8).Format("2006-01-02")

	cancelled := models.Booking{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		ProviderID:  providerID,
		ServiceID:   serviceID,
		BookingDate: date,
		StartTime:   "11:30",
		Status:      enums.BookingStatusCancelled,
	}
	require.NoError(t, client.DB().Create(&cancelled).Error)

	_, err := svc.Create(ctx, uuid.New(), CreateRequest{
		ProviderID:  providerID,
		ServiceID:   serviceID,
		BookingDate: date,
		StartTime:   "11:30",
	})
	require.NoError(t, err, "cancelled bookings must release the slot")
}

func TestAvailabilityFullyBookedDay(t *testing.T) {
	client := setupBookingsTestDB(t, "bookings_availability")
	svc := newBookingsService(t, client)
	ctx := context.Background()

	providerID := uuid.New()
	serviceID := seedService(t, client, providerID)
	fullDate := "2026-09-01"
	for _, slot := range defaultGrid().Slots() {
		row := models.Booking{
			ID:          uuid.New(),
			CustomerID:  uuid.New(),
			ProviderID:  providerID,
			ServiceID:   serviceID,
			BookingDate: fullDate,
			StartTime:   slot,
			Status:      enums.BookingStatusPending,
		}
		require.NoError(t, client.DB().Create(&row).Error)
	}

	resp, err := svc.Availability(ctx, AvailabilityRequest{
		ProviderID: providerID,
		From:       fullDate,
		To:         "2026-09-02",
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)

	full := resp.Days[0]
	assert.Equal(t, fullDate, full.Date)
	assert.Len(t, full.TakenSlots, defaultGrid().Size())
	assert.True(t, full.FullyBooked)

	open := resp.Days[1]
	assert.Empty(t, open.TakenSlots)
	assert.False(t, open.FullyBooked)
}

func TestAvailabilityCancelledSlotsAreOpen(t *testing.T) {
	client := setupBookingsTestDB(t, "bookings_avail_cancel")
	svc := newBookingsService(t, client)
	ctx := context.Background()

	providerID := uuid.New()
	serviceID := seedService(t, client, providerID)
	date := "2026-09-10"

	for i, status := range []enums.BookingStatus{enums.BookingStatusConfirmed, enums.BookingStatusCancelled} {
		row := models.Booking{
			ID:          uuid.New(),
			CustomerID:  uuid.New(),
			ProviderID:  providerID,
			ServiceID:   serviceID,
			BookingDate: date,
			StartTime:   defaultGrid().Slots()[i],
			Status:      status,
		}
		require.NoError(t, client.DB().Create(&row).Error)
	}

	resp, err := svc.Availability(ctx, AvailabilityRequest{ProviderID: providerID, From: date, To: date})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []string{"09:00"}, resp.Days[0].TakenSlots)
	assert.False(t, resp.Days[0].FullyBooked)
}
