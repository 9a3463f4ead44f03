package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"moviemate/internal/models"
)

// MediaFilters holds optional filters for listing media items.
// Genre and Platform are substring matches, Status is an exact match.
type MediaFilters struct {
	Genre    string
	Platform string
	Status   string
}

// MediaItemRepository handles database operations for media items
type MediaItemRepository struct {
	db *DB
}

// NewMediaItemRepository creates a new media item repository
func NewMediaItemRepository(db *DB) *MediaItemRepository {
	return &MediaItemRepository{db: db}
}

// Create inserts a new media item into the database
func (r *MediaItemRepository) Create(ctx context.Context, item *models.MediaItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create media item: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateUnique inserts the item after verifying its catalog id is not already
// tracked. Check and insert run in one transaction so a concurrent insert
// cannot slip between them; the whole write rolls back on failure.
func (r *MediaItemRepository) CreateUnique(ctx context.Context, item *models.MediaItem) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if item.CatalogID != nil {
			var existing models.MediaItem
			err := tx.Where("catalog_id = ?", *item.CatalogID).First(&existing).Error
			if err == nil {
				return ErrDuplicate
			}
			if mapped := MapGormError(err); !errors.Is(mapped, ErrNotFound) {
				return mapped
			}
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create media item: %w", MapGormError(err))
		}
		return nil
	})
}

// GetByID retrieves a media item by its UUID
func (r *MediaItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// GetByCatalogID retrieves a media item by its external catalog id (for duplicate checking)
func (r *MediaItemRepository) GetByCatalogID(ctx context.Context, catalogID int64) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).Where("catalog_id = ?", catalogID).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// List retrieves media items matching the given filters, newest first
func (r *MediaItemRepository) List(ctx context.Context, filters MediaFilters) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	query := r.db.WithContext(ctx).Order("created_at DESC")

	if filters.Genre != "" {
		query = query.Where("genre LIKE ?", "%"+filters.Genre+"%")
	}
	if filters.Platform != "" {
		query = query.Where("platform LIKE ?", "%"+filters.Platform+"%")
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	result := query.Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list media items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// UpdateFields applies a partial update to a media item.
// Uses map-based updates to support setting fields to zero values.
func (r *MediaItemRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Where("id = ?", id.String()).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update media item: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a media item by its UUID.
// Party rooms referencing the item are intentionally left untouched.
func (r *MediaItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.MediaItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete media item: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of media items
func (r *MediaItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count media items: %w", MapGormError(result.Error))
	}
	return count, nil
}

// CountByStatus returns the number of media items with the given watch status
func (r *MediaItemRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Where("status = ?", status).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count media items by status: %w", MapGormError(result.Error))
	}
	return count, nil
}

// AverageRating returns the mean rating across rated items, or 0 when none are rated
func (r *MediaItemRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg *float64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).
		Where("rating IS NOT NULL").
		Select("AVG(rating)").
		Scan(&avg)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", MapGormError(result.Error))
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// SumMinutesWatched returns the total minutes watched across the collection
func (r *MediaItemRepository) SumMinutesWatched(ctx context.Context) (int64, error) {
	var total *int64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).
		Select("SUM(minutes_watched)").
		Scan(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sum minutes watched: %w", MapGormError(result.Error))
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
