package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaItem represents a tracked movie or TV show
type MediaItem struct {
	ID              uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	CatalogID       *int64    `json:"catalog_id,omitempty" gorm:"type:integer;uniqueIndex;column:catalog_id"`
	Title           string    `json:"title" gorm:"type:text;not null;index;column:title" validate:"required"`
	Director        string    `json:"director" gorm:"type:text;not null;default:'';column:director"`
	Genre           string    `json:"genre" gorm:"type:text;not null;default:'';column:genre"` // comma-joined
	Platform        string    `json:"platform" gorm:"type:text;not null;default:'';column:platform"`
	Status          string    `json:"status" gorm:"type:text;not null;default:'wishlist';column:status"`
	Rating          *float64  `json:"rating,omitempty" gorm:"type:real;column:rating"`
	Review          *string   `json:"review,omitempty" gorm:"type:text;column:review"`
	EpisodesWatched int       `json:"episodes_watched" gorm:"type:integer;not null;default:0;column:episodes_watched"`
	TotalEpisodes   *int      `json:"total_episodes,omitempty" gorm:"type:integer;column:total_episodes"`
	MinutesWatched  int       `json:"minutes_watched" gorm:"type:integer;not null;default:0;column:minutes_watched"`
	TotalMinutes    *int      `json:"total_minutes,omitempty" gorm:"type:integer;column:total_minutes"`
	IsTVShow        bool      `json:"is_tv_show" gorm:"type:integer;not null;default:0;column:is_tv_show"`
	PosterPath      *string   `json:"poster_path,omitempty" gorm:"type:text;column:poster_path"`
	ReleaseDate     *string   `json:"release_date,omitempty" gorm:"type:text;column:release_date"`
	Overview        *string   `json:"overview,omitempty" gorm:"type:text;column:overview"`
	CreatedAt       time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName overrides the default table name
func (MediaItem) TableName() string {
	return "media_items"
}

// NewMediaItem creates a new MediaItem with generated UUID and timestamp.
// Episode and minute counters start at zero, never null.
func NewMediaItem(title string) *MediaItem {
	return &MediaItem{
		ID:        uuid.New(),
		Title:     title,
		Status:    StatusWishlist,
		CreatedAt: time.Now().UTC(),
	}
}

// Genres splits the comma-joined genre string into trimmed tokens.
// Empty tokens and the "Not specified" placeholder are dropped.
func (m *MediaItem) Genres() []string {
	if m.Genre == "" || m.Genre == "Not specified" {
		return nil
	}
	parts := strings.Split(m.Genre, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
