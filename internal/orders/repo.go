package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes product order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an order together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.ProductOrder) (*models.ProductOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductOrder, error) {
	var order models.ProductOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus persists a lifecycle move.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductOrder{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListForCustomer returns a cursor page of the customer's orders.
func (r *Repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ProductOrder, error) {
	return r.list(ctx, "customer_id = ?", customerID, cursor, limit)
}

// ListForProvider returns a cursor page of the provider's orders.
func (r *Repository) ListForProvider(ctx context.Context, providerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ProductOrder, error) {
	return r.list(ctx, "provider_id = ?", providerID, cursor, limit)
}

func (r *Repository) list(ctx context.Context, where string, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.ProductOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
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

	var rows []models.ProductOrder
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
