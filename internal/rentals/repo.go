package rentals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes rental persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rentals repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a rental request.
func (r *Repository) Create(ctx context.Context, rental *models.EquipmentRental) (*models.EquipmentRental, error) {
	if err := r.db.WithContext(ctx).Create(rental).Error; err != nil {
		return nil, err
	}
	return rental, nil
}

// FindByID loads a rental by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EquipmentRental, error) {
	var rental models.EquipmentRental
	if err := r.db.WithContext(ctx).First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// UpdateStatus persists a lifecycle move.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RentalStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.EquipmentRental{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListForCustomer returns a cursor page of the customer's rentals.
func (r *Repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.EquipmentRental, error) {
	return r.list(ctx, "customer_id = ?", customerID, cursor, limit)
}

// ListForProvider returns a cursor page of the provider's rentals.
func (r *Repository) ListForProvider(ctx context.Context, providerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.EquipmentRental, error) {
	return r.list(ctx, "provider_id = ?", providerID, cursor, limit)
}

func (r *Repository) list(ctx context.Context, where string, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.EquipmentRental, error) {
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

	var rows []models.EquipmentRental
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
