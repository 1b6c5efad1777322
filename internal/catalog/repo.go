package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes catalog persistence for services, products, and equipment.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func applyCursor(query *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor == nil {
		return query
	}
	return query.Where(
		"(created_at < ?) OR (created_at = ? AND id < ?)",
		cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
	)
}

// --- services ---

func (r *Repository) CreateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if err := r.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *Repository) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *Repository) UpdateService(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id).Error
}

// ListServices returns a cursor page, optionally scoped to a provider. When
// activeOnly is set, inactive offerings are hidden (the public view).
func (r *Repository) ListServices(ctx context.Context, providerID *uuid.UUID, activeOnly bool, cursor *pagination.Cursor, limit int) ([]models.Service, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	query = applyCursor(query, cursor)

	var rows []models.Service
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --- products ---

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductForUpdate locks the product row for the current transaction.
func (r *Repository) FindProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// AdjustProductStock applies a relative stock delta, refusing to cross zero.
func (r *Repository) AdjustProductStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context, providerID *uuid.UUID, activeOnly bool, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	query = applyCursor(query, cursor)

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --- equipment ---

func (r *Repository) CreateEquipment(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *Repository) FindEquipmentByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := r.db.WithContext(ctx).First(&equipment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

// FindEquipmentForUpdate locks the equipment row for the current transaction.
func (r *Repository) FindEquipmentForUpdate(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&equipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *Repository) UpdateEquipment(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Equipment{}, "id = ?", id).Error
}

// SetEquipmentAvailability flips the availability flag.
func (r *Repository) SetEquipmentAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		UpdateColumn("is_available", available).Error
}

func (r *Repository) ListEquipment(ctx context.Context, providerID *uuid.UUID, availableOnly bool, cursor *pagination.Cursor, limit int) ([]models.Equipment, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	query = applyCursor(query, cursor)

	var rows []models.Equipment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
