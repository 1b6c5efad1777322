package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes booking persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking. The partial unique index on
// (provider_id, booking_date, start_time) rejects double-booking.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// FindByID loads a booking by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus persists a lifecycle move.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// TakenSlot pairs a date with an occupied start time.
type TakenSlot struct {
	BookingDate string
	StartTime   string
}

// TakenSlots returns the non-cancelled slots for a provider across [from, to].
func (r *Repository) TakenSlots(ctx context.Context, providerID uuid.UUID, from, to string) ([]TakenSlot, error) {
	var rows []TakenSlot
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("booking_date, start_time").
		Where("provider_id = ?", providerID).
		Where("booking_date BETWEEN ? AND ?", from, to).
		Where("status <> ?", enums.BookingStatusCancelled).
		Order("booking_date ASC").
		Order("start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForCustomer returns a cursor page of the customer's bookings.
func (r *Repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
	return r.list(ctx, "customer_id = ?", customerID, cursor, limit)
}

// ListForProvider returns a cursor page of the provider's bookings.
func (r *Repository) ListForProvider(ctx context.Context, providerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
	return r.list(ctx, "provider_id = ?", providerID, cursor, limit)
}

func (r *Repository) list(ctx context.Context, where string, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Where(where, id).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Booking
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
