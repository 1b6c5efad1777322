package providers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/pagination"
)

// Repository exposes provider persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a providers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new provider profile.
func (r *Repository) Create(ctx context.Context, provider *models.Provider) (*models.Provider, error) {
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return nil, err
	}
	return provider, nil
}

// FindByID loads a provider by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// FindByUserID loads the provider profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetActive flips the provider's active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}

// ApplyRating overwrites the denormalized rating aggregate.
func (r *Repository) ApplyRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_average": average,
			"rating_count":   count,
		}).Error
}

// ListActive returns a cursor page of active providers, optionally filtered by city.
func (r *Repository) ListActive(ctx context.Context, city string, cursor *pagination.Cursor, limit int) ([]models.Provider, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Provider
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
