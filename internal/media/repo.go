package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundihub/fundihub-backend/pkg/db/models"
)

// Repository exposes media persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a media row.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID loads a media row by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// Finalize marks an upload as completed and stores its public URL if any.
func (r *Repository) Finalize(ctx context.Context, id uuid.UUID, url *string) error {
	updates := map[string]any{"finalized": true}
	if url != nil {
		updates["url"] = *url
	}
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id).Error
}
