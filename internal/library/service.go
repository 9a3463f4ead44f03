// Package library implements the business rules for the user's media collection.
package library

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"moviemate/internal/catalog"
	"moviemate/internal/db"
	"moviemate/internal/logger"
	"moviemate/internal/models"
	"moviemate/internal/review"
)

// CatalogDetails is the slice of the metadata provider the library needs
type CatalogDetails interface {
	Details(ctx context.Context, catalogID int64, isTV bool) (*catalog.Details, error)
}

// Service handles business logic for media item operations
type Service struct {
	repos   *db.Repositories
	catalog CatalogDetails
	reviews *review.Generator
}

// NewService creates a new library service instance
func NewService(repos *db.Repositories, catalogClient CatalogDetails, reviews *review.Generator) *Service {
	return &Service{
		repos:   repos,
		catalog: catalogClient,
		reviews: reviews,
	}
}

// AddParams holds the fields accepted when adding a media item manually
type AddParams struct {
	Title           string
	Director        string
	Genre           string
	Platform        string
	Status          string
	IsTVShow        bool
	CatalogID       *int64
	EpisodesWatched int
	TotalEpisodes   *int
	MinutesWatched  int
	TotalMinutes    *int
	PosterPath      *string
	ReleaseDate     *string
	Overview        *string
}

// UpdateParams holds the optional fields for a partial media item update
type UpdateParams struct {
	Rating          *float64
	Review          *string
	EpisodesWatched *int
	MinutesWatched  *int
	TotalMinutes    *int
	Status          *string
}

// Stats summarizes the collection
type Stats struct {
	Total               int64   `json:"total"`
	Completed           int64   `json:"completed"`
	Watching            int64   `json:"watching"`
	Wishlist            int64   `json:"wishlist"`
	AverageRating       float64 `json:"average_rating"`
	TotalMinutesWatched int64   `json:"total_minutes_watched"`
}

// Add creates a media item from caller-supplied fields. When a catalog id is
// present the provider is consulted to enrich the record; a provider miss is
// non-fatal here, unlike AddFromCatalog.
func (s *Service) Add(ctx context.Context, p AddParams) (*models.MediaItem, error) {
	if strings.TrimSpace(p.Platform) == "" {
		return nil, ErrPlatformRequired
	}
	if p.Status == "" {
		p.Status = models.StatusWishlist
	}
	if !models.ValidStatus(p.Status) {
		return nil, ErrInvalidStatus
	}

	item := models.NewMediaItem(p.Title)
	item.Director = p.Director
	item.Genre = p.Genre
	item.Platform = p.Platform
	item.Status = p.Status
	item.IsTVShow = p.IsTVShow
	item.CatalogID = p.CatalogID
	item.EpisodesWatched = p.EpisodesWatched
	item.TotalEpisodes = p.TotalEpisodes
	item.MinutesWatched = p.MinutesWatched
	item.TotalMinutes = p.TotalMinutes
	item.PosterPath = p.PosterPath
	item.ReleaseDate = p.ReleaseDate
	item.Overview = p.Overview

	if p.CatalogID != nil {
		details, err := s.catalog.Details(ctx, *p.CatalogID, p.IsTVShow)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Int64("catalog_id", *p.CatalogID).
				Msg("Catalog enrichment failed, keeping supplied fields")
		} else if details != nil {
			applyDetails(item, details)
		}
	}

	if err := s.repos.MediaItems.CreateUnique(ctx, item); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrDuplicateCatalogID
		}
		logger.Log.Error().Err(err).Str("title", p.Title).Msg("Failed to create media item")
		return nil, fmt.Errorf("failed to add media item: %w", err)
	}

	logger.Log.Info().
		Str("media_id", item.ID.String()).
		Str("title", item.Title).
		Msg("Media item added")

	return item, nil
}

// AddFromCatalog creates a media item from a catalog entry. The provider
// must know the id; counters start at zero.
func (s *Service) AddFromCatalog(ctx context.Context, catalogID int64, platform, status string, isTV bool) (*models.MediaItem, error) {
	if strings.TrimSpace(platform) == "" {
		return nil, ErrPlatformRequired
	}
	if status == "" {
		status = models.StatusWishlist
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	// Early duplicate check saves a provider round trip; CreateUnique
	// re-checks inside the transaction, so this is not the guarantee.
	if err := s.ensureCatalogIDFree(ctx, catalogID); err != nil {
		return nil, err
	}

	details, err := s.catalog.Details(ctx, catalogID, isTV)
	if err != nil {
		logger.Log.Error().Err(err).Int64("catalog_id", catalogID).Msg("Catalog details lookup failed")
		return nil, ErrCatalogDetailsNotFound
	}
	if details == nil {
		return nil, ErrCatalogDetailsNotFound
	}

	item := models.NewMediaItem(details.Title)
	item.CatalogID = &catalogID
	item.Platform = platform
	item.Status = status
	item.IsTVShow = isTV
	applyDetails(item, details)

	if err := s.repos.MediaItems.CreateUnique(ctx, item); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrDuplicateCatalogID
		}
		logger.Log.Error().Err(err).Int64("catalog_id", catalogID).Msg("Failed to create media item from catalog")
		return nil, fmt.Errorf("failed to add media item: %w", err)
	}

	logger.Log.Info().
		Str("media_id", item.ID.String()).
		Int64("catalog_id", catalogID).
		Str("title", item.Title).
		Msg("Media item added from catalog")

	return item, nil
}

// ensureCatalogIDFree returns ErrDuplicateCatalogID if the id is already tracked
func (s *Service) ensureCatalogIDFree(ctx context.Context, catalogID int64) error {
	_, err := s.repos.MediaItems.GetByCatalogID(ctx, catalogID)
	if err == nil {
		return ErrDuplicateCatalogID
	}
	if !db.IsNotFound(err) {
		return fmt.Errorf("failed to check for existing media item: %w", err)
	}
	return nil
}

// applyDetails copies provider metadata onto the item
func applyDetails(item *models.MediaItem, details *catalog.Details) {
	item.Title = details.Title
	item.Director = details.Director
	item.Genre = details.Genre
	item.Overview = details.Overview
	item.PosterPath = details.PosterPath
	item.ReleaseDate = details.ReleaseDate
	item.TotalEpisodes = details.TotalEpisodes
	minutes := details.TotalMinutes
	item.TotalMinutes = &minutes
}

// Get retrieves a media item by its id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	item, err := s.repos.MediaItems.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	return item, nil
}

// List retrieves media items matching the filters
func (s *Service) List(ctx context.Context, filters db.MediaFilters) ([]*models.MediaItem, error) {
	items, err := s.repos.MediaItems.List(ctx, filters)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list media items")
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	return items, nil
}

// ListAll retrieves the entire collection
func (s *Service) ListAll(ctx context.Context) ([]*models.MediaItem, error) {
	return s.List(ctx, db.MediaFilters{})
}

// Update applies a partial update. For TV shows an episode count change
// recomputes minutes watched and auto-transitions the status: zero episodes
// resets to wishlist, reaching the total completes, anything else is watching.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.MediaItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if p.Rating != nil {
		if *p.Rating < 0 || *p.Rating > 10 {
			return nil, ErrInvalidRating
		}
		fields["rating"] = *p.Rating
	}
	if p.Review != nil {
		fields["review"] = *p.Review
	}
	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *p.Status
	}
	if p.MinutesWatched != nil {
		fields["minutes_watched"] = *p.MinutesWatched
	}
	if p.TotalMinutes != nil {
		fields["total_minutes"] = *p.TotalMinutes
	}

	if p.EpisodesWatched != nil {
		episodes := *p.EpisodesWatched
		if episodes < 0 {
			episodes = 0
		}
		fields["episodes_watched"] = episodes

		if item.IsTVShow {
			fields["minutes_watched"] = episodes * models.EpisodeDurationMinutes

			if item.TotalEpisodes != nil {
				switch {
				case episodes == 0:
					fields["status"] = models.StatusWishlist
				case episodes >= *item.TotalEpisodes:
					fields["status"] = models.StatusCompleted
				default:
					fields["status"] = models.StatusWatching
				}
			}
		}
	}

	if len(fields) == 0 {
		return item, nil
	}

	if err := s.repos.MediaItems.UpdateFields(ctx, id, fields); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrMediaNotFound
		}
		logger.Log.Error().Err(err).Str("media_id", id.String()).Msg("Failed to update media item")
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}

	return s.Get(ctx, id)
}

// UpdateRatingReview sets the rating and/or review text.
// Ratings outside [0,10] are rejected; in-range values are stored unchanged.
func (s *Service) UpdateRatingReview(ctx context.Context, id uuid.UUID, rating *float64, reviewText *string) (*models.MediaItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if rating != nil {
		if *rating < 0 || *rating > 10 {
			return nil, ErrInvalidRating
		}
		fields["rating"] = *rating
	}
	if reviewText != nil {
		fields["review"] = *reviewText
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repos.MediaItems.UpdateFields(ctx, id, fields); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to update rating/review: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a media item. Party rooms referencing it are left alone.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.MediaItems.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrMediaNotFound
		}
		logger.Log.Error().Err(err).Str("media_id", id.String()).Msg("Failed to delete media item")
		return fmt.Errorf("failed to delete media item: %w", err)
	}

	logger.Log.Info().Str("media_id", id.String()).Msg("Media item deleted")
	return nil
}

// GenerateReview produces review prose for a media item. The result is
// returned to the caller and never persisted; saving is the client's choice.
func (s *Service) GenerateReview(ctx context.Context, id uuid.UUID, notes string, rating *float64, length string) (string, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	text := s.reviews.Generate(ctx, review.Request{
		Title:  item.Title,
		Notes:  notes,
		Rating: rating,
		Length: length,
	})

	logger.Log.Info().
		Str("media_id", id.String()).
		Str("title", item.Title).
		Str("length", length).
		Msg("Review generated")

	return text, nil
}

// GetStats aggregates collection statistics
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.repos.MediaItems.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	stats := &Stats{Total: total}

	for status, target := range map[string]*int64{
		models.StatusCompleted: &stats.Completed,
		models.StatusWatching:  &stats.Watching,
		models.StatusWishlist:  &stats.Wishlist,
	} {
		count, err := s.repos.MediaItems.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate stats: %w", err)
		}
		*target = count
	}

	avg, err := s.repos.MediaItems.AverageRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	stats.AverageRating = math.Round(avg*10) / 10

	minutes, err := s.repos.MediaItems.SumMinutesWatched(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	stats.TotalMinutesWatched = minutes

	return stats, nil
}
