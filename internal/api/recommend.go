package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"moviemate/internal/library"
	"moviemate/internal/logger"
	"moviemate/internal/recommend"
)

// RecommendHandler handles recommendation requests
type RecommendHandler struct {
	library *library.Service
	engine  *recommend.Engine
}

// NewRecommendHandler creates a new recommendation handler instance
func NewRecommendHandler(libraryService *library.Service, engine *recommend.Engine) *RecommendHandler {
	return &RecommendHandler{
		library: libraryService,
		engine:  engine,
	}
}

// GetRecommendations handles GET /api/recommendations
func (h *RecommendHandler) GetRecommendations(c *gin.Context) {
	maxResults := queryInt(c, "max", recommend.DefaultMaxResults)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	items, err := h.library.ListAll(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load collection for recommendations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build recommendations",
		})
		return
	}

	c.JSON(http.StatusOK, h.engine.Recommend(ctx, items, maxResults))
}

// GetFallbackRecommendations handles GET /api/recommendations/fallback
func (h *RecommendHandler) GetFallbackRecommendations(c *gin.Context) {
	maxResults := queryInt(c, "max", recommend.DefaultMaxResults)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.engine.Fallback(ctx, maxResults)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Fallback recommendations failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Catalog provider request failed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetupRecommendRoutes registers recommendation routes
func SetupRecommendRoutes(apiGroup *gin.RouterGroup, libraryService *library.Service, engine *recommend.Engine) {
	handler := NewRecommendHandler(libraryService, engine)
	apiGroup.GET("/recommendations", handler.GetRecommendations)
	apiGroup.GET("/recommendations/fallback", handler.GetFallbackRecommendations)
}
