package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"moviemate/internal/db"
	"moviemate/internal/library"
	"moviemate/internal/logger"
	"moviemate/internal/models"
	"moviemate/internal/review"
)

// Request/Response DTOs

// AddMediaRequest represents a request to add a media item manually
type AddMediaRequest struct {
	Title           string  `json:"title" binding:"required"`
	Director        string  `json:"director"`
	Genre           string  `json:"genre"`
	Platform        string  `json:"platform"`
	Status          string  `json:"status"`
	IsTVShow        bool    `json:"is_tv_show"`
	CatalogID       *int64  `json:"catalog_id,omitempty"`
	EpisodesWatched int     `json:"episodes_watched"`
	TotalEpisodes   *int    `json:"total_episodes,omitempty"`
	MinutesWatched  int     `json:"minutes_watched"`
	TotalMinutes    *int    `json:"total_minutes,omitempty"`
	PosterPath      *string `json:"poster_path,omitempty"`
	ReleaseDate     *string `json:"release_date,omitempty"`
	Overview        *string `json:"overview,omitempty"`
}

// AddFromCatalogRequest represents a request to add a media item by catalog id
type AddFromCatalogRequest struct {
	CatalogID int64  `json:"catalog_id" binding:"required"`
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	IsTVShow  bool   `json:"is_tv_show"`
}

// UpdateMediaRequest represents a partial media item update
type UpdateMediaRequest struct {
	Rating          *float64 `json:"rating,omitempty"`
	Review          *string  `json:"review,omitempty"`
	EpisodesWatched *int     `json:"episodes_watched,omitempty"`
	MinutesWatched  *int     `json:"minutes_watched,omitempty"`
	TotalMinutes    *int     `json:"total_minutes,omitempty"`
	Status          *string  `json:"status,omitempty"`
}

// RatingReviewRequest represents a rating and/or review update
type RatingReviewRequest struct {
	Rating *float64 `json:"rating,omitempty"`
	Review *string  `json:"review,omitempty"`
}

// GenerateReviewRequest represents a request to generate review prose
type GenerateReviewRequest struct {
	Notes  string   `json:"notes"`
	Rating *float64 `json:"rating,omitempty"`
	Length string   `json:"length"`
}

// GenerateReviewResponse carries the generated prose back to the caller.
// Nothing is persisted; saving the text is a separate update call.
type GenerateReviewResponse struct {
	MediaID string `json:"media_id"`
	Review  string `json:"review"`
}

// MediaListResponse represents the media collection listing
type MediaListResponse struct {
	Items []*models.MediaItem `json:"items"`
	Total int                 `json:"total"`
}

// DeleteResponse represents a successful delete operation
type DeleteResponse struct {
	Message string `json:"message"`
}

// ReviewStatusResponse reports whether AI review generation is available
type ReviewStatusResponse struct {
	Configured bool   `json:"configured"`
	Mode       string `json:"mode"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MediaHandler handles media collection API requests
type MediaHandler struct {
	library *library.Service
	reviews *review.Generator
}

// NewMediaHandler creates a new media handler instance
func NewMediaHandler(libraryService *library.Service, reviews *review.Generator) *MediaHandler {
	return &MediaHandler{
		library: libraryService,
		reviews: reviews,
	}
}

// writeLibraryError maps library service errors onto HTTP responses
func writeLibraryError(c *gin.Context, err error) {
	switch {
	case library.IsMediaNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Media item not found",
		})
	case library.IsDuplicateCatalogID(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_catalog_id",
			Message: "This title is already in your collection",
		})
	case library.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
	default:
		logger.Log.Error().Err(err).Msg("Media operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Media operation failed",
		})
	}
}

// AddMedia handles POST /api/media
func (h *MediaHandler) AddMedia(c *gin.Context) {
	var req AddMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	item, err := h.library.Add(ctx, library.AddParams{
		Title:           req.Title,
		Director:        req.Director,
		Genre:           req.Genre,
		Platform:        req.Platform,
		Status:          req.Status,
		IsTVShow:        req.IsTVShow,
		CatalogID:       req.CatalogID,
		EpisodesWatched: req.EpisodesWatched,
		TotalEpisodes:   req.TotalEpisodes,
		MinutesWatched:  req.MinutesWatched,
		TotalMinutes:    req.TotalMinutes,
		PosterPath:      req.PosterPath,
		ReleaseDate:     req.ReleaseDate,
		Overview:        req.Overview,
	})
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// AddFromCatalog handles POST /api/media/catalog/add
func (h *MediaHandler) AddFromCatalog(c *gin.Context) {
	var req AddFromCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	item, err := h.library.AddFromCatalog(ctx, req.CatalogID, req.Platform, req.Status, req.IsTVShow)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListMedia handles GET /api/media
func (h *MediaHandler) ListMedia(c *gin.Context) {
	filters := db.MediaFilters{
		Genre:    c.Query("genre"),
		Platform: c.Query("platform"),
		Status:   c.Query("status"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.library.List(ctx, filters)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, MediaListResponse{
		Items: items,
		Total: len(items),
	})
}

// GetMedia handles GET /api/media/:id
func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, ok := parseMediaID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.library.Get(ctx, id)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateMedia handles PUT /api/media/:id
func (h *MediaHandler) UpdateMedia(c *gin.Context) {
	id, ok := parseMediaID(c)
	if !ok {
		return
	}

	var req UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	item, err := h.library.Update(ctx, id, library.UpdateParams{
		Rating:          req.Rating,
		Review:          req.Review,
		EpisodesWatched: req.EpisodesWatched,
		MinutesWatched:  req.MinutesWatched,
		TotalMinutes:    req.TotalMinutes,
		Status:          req.Status,
	})
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateRatingReview handles PUT /api/media/:id/rating-review
func (h *MediaHandler) UpdateRatingReview(c *gin.Context) {
	id, ok := parseMediaID(c)
	if !ok {
		return
	}

	var req RatingReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	item, err := h.library.UpdateRatingReview(ctx, id, req.Rating, req.Review)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// GenerateReview handles POST /api/media/:id/generate-review
func (h *MediaHandler) GenerateReview(c *gin.Context) {
	id, ok := parseMediaID(c)
	if !ok {
		return
	}

	var req GenerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body",
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	text, err := h.library.GenerateReview(ctx, id, req.Notes, req.Rating, req.Length)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateReviewResponse{
		MediaID: id.String(),
		Review:  text,
	})
}

// DeleteMedia handles DELETE /api/media/:id
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, ok := parseMediaID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.library.Delete(ctx, id); err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "Media item deleted",
	})
}

// GetStats handles GET /api/stats
func (h *MediaHandler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.library.GetStats(ctx)
	if err != nil {
		writeLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ReviewStatus handles GET /api/review/status
func (h *MediaHandler) ReviewStatus(c *gin.Context) {
	mode := "template"
	if h.reviews.Configured() {
		mode = "ai"
	}

	c.JSON(http.StatusOK, ReviewStatusResponse{
		Configured: h.reviews.Configured(),
		Mode:       mode,
	})
}

// parseMediaID validates the :id path parameter, writing the error response
// itself when the id is malformed
func parseMediaID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid media ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// SetupMediaRoutes registers media collection routes
func SetupMediaRoutes(apiGroup *gin.RouterGroup, libraryService *library.Service, reviews *review.Generator) {
	handler := NewMediaHandler(libraryService, reviews)

	apiGroup.POST("/media", handler.AddMedia)
	apiGroup.POST("/media/catalog/add", handler.AddFromCatalog)
	apiGroup.GET("/media", handler.ListMedia)
	apiGroup.GET("/media/:id", handler.GetMedia)
	apiGroup.PUT("/media/:id", handler.UpdateMedia)
	apiGroup.DELETE("/media/:id", handler.DeleteMedia)
	apiGroup.PUT("/media/:id/rating-review", handler.UpdateRatingReview)
	apiGroup.POST("/media/:id/generate-review", handler.GenerateReview)

	apiGroup.GET("/stats", handler.GetStats)
	apiGroup.GET("/review/status", handler.ReviewStatus)
}
