package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"moviemate/internal/catalog"
	"moviemate/internal/db"
	"moviemate/internal/logger"
)

const defaultListLimit = 10

// CatalogResult is a provider entry annotated with collection ownership
type CatalogResult struct {
	catalog.Result
	AlreadyAdded   bool    `json:"already_added"`
	ExistingStatus *string `json:"existing_status,omitempty"`
}

// CatalogListResponse represents a list of annotated provider entries
type CatalogListResponse struct {
	Results []CatalogResult `json:"results"`
	Total   int             `json:"total"`
}

// CacheClearResponse acknowledges a cache flush
type CacheClearResponse struct {
	Message string `json:"message"`
}

// CatalogHandler handles metadata provider proxy requests
type CatalogHandler struct {
	catalog *catalog.Client
	repos   *db.Repositories
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(client *catalog.Client, repos *db.Repositories) *CatalogHandler {
	return &CatalogHandler{
		catalog: client,
		repos:   repos,
	}
}

// annotate marks provider entries already present in the collection.
// A lookup failure degrades to unannotated results rather than failing
// the whole request.
func (h *CatalogHandler) annotate(ctx context.Context, results []catalog.Result) []CatalogResult {
	owned := map[int64]string{}
	items, err := h.repos.MediaItems.List(ctx, db.MediaFilters{})
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Collection lookup failed, skipping ownership annotation")
	} else {
		for _, item := range items {
			if item.CatalogID != nil {
				owned[*item.CatalogID] = item.Status
			}
		}
	}

	annotated := make([]CatalogResult, 0, len(results))
	for _, result := range results {
		entry := CatalogResult{Result: result}
		if status, ok := owned[result.ID]; ok {
			entry.AlreadyAdded = true
			entry.ExistingStatus = &status
		}
		annotated = append(annotated, entry)
	}
	return annotated
}

// respondList writes the annotated result list or the provider error
func (h *CatalogHandler) respondList(c *gin.Context, results []catalog.Result, err error) {
	if err != nil {
		logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("Catalog provider request failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Catalog provider request failed",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	annotated := h.annotate(ctx, results)
	c.JSON(http.StatusOK, CatalogListResponse{
		Results: annotated,
		Total:   len(annotated),
	})
}

// queryInt parses a positive integer query parameter with a fallback
func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// Search handles GET /api/catalog/search
func (h *CatalogHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "Search query is required",
		})
		return
	}
	page := queryInt(c, "page", 1)

	results, err := h.catalog.Search(c.Request.Context(), query, page)
	h.respondList(c, results, err)
}

// PopularMovies handles GET /api/catalog/popular/movies
func (h *CatalogHandler) PopularMovies(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	results, err := h.catalog.PopularMovies(c.Request.Context(), limit)
	h.respondList(c, results, err)
}

// PopularTV handles GET /api/catalog/popular/tv
func (h *CatalogHandler) PopularTV(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	results, err := h.catalog.PopularTV(c.Request.Context(), limit)
	h.respondList(c, results, err)
}

// TopRatedMovies handles GET /api/catalog/top-rated/movies
func (h *CatalogHandler) TopRatedMovies(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	results, err := h.catalog.TopRatedMovies(c.Request.Context(), limit)
	h.respondList(c, results, err)
}

// TopRatedTV handles GET /api/catalog/top-rated/tv
func (h *CatalogHandler) TopRatedTV(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	results, err := h.catalog.TopRatedTV(c.Request.Context(), limit)
	h.respondList(c, results, err)
}

// HighlyRated handles GET /api/catalog/highly-rated
func (h *CatalogHandler) HighlyRated(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	results, err := h.catalog.HighlyRatedMovies(c.Request.Context(), limit)
	h.respondList(c, results, err)
}

// ClearCache handles DELETE /api/catalog/cache
func (h *CatalogHandler) ClearCache(c *gin.Context) {
	h.catalog.ClearCache()
	logger.Log.Info().Msg("Catalog cache cleared")

	c.JSON(http.StatusOK, CacheClearResponse{
		Message: "Catalog cache cleared",
	})
}

// SetupCatalogRoutes registers metadata provider proxy routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, client *catalog.Client, repos *db.Repositories) {
	handler := NewCatalogHandler(client, repos)

	apiGroup.GET("/catalog/search", handler.Search)
	apiGroup.GET("/catalog/popular/movies", handler.PopularMovies)
	apiGroup.GET("/catalog/popular/tv", handler.PopularTV)
	apiGroup.GET("/catalog/top-rated/movies", handler.TopRatedMovies)
	apiGroup.GET("/catalog/top-rated/tv", handler.TopRatedTV)
	apiGroup.GET("/catalog/highly-rated", handler.HighlyRated)
	apiGroup.DELETE("/catalog/cache", handler.ClearCache)
}
