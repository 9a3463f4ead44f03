package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moviemate/internal/catalog"
	"moviemate/internal/config"
	"moviemate/internal/db"
	"moviemate/internal/models"
)

// setupCatalogRouter points the catalog routes at a stub provider server
func setupCatalogRouter(t *testing.T, repos *db.Repositories, handler http.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := catalog.NewClient(config.CatalogConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
	})

	router := gin.New()
	apiGroup := router.Group("/api")
	SetupCatalogRoutes(apiGroup, client, repos)
	return router
}

func TestCatalogSearchEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	// One of the provider results is already in the collection
	owned := models.NewMediaItem("The Matrix")
	catalogID := int64(603)
	owned.CatalogID = &catalogID
	owned.Platform = "Netflix"
	owned.Status = models.StatusCompleted
	require.NoError(t, repos.MediaItems.Create(context.Background(), owned))

	router := setupCatalogRouter(t, repos, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": 603, "title": "The Matrix", "media_type": "movie", "popularity": 90.0},
				{"id": 604, "title": "Matrix Reloaded", "media_type": "movie", "popularity": 80.0},
			},
		})
	})

	t.Run("Results are annotated with ownership", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/catalog/search?query=matrix", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp CatalogListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 2, resp.Total)

		assert.True(t, resp.Results[0].AlreadyAdded)
		require.NotNil(t, resp.Results[0].ExistingStatus)
		assert.Equal(t, models.StatusCompleted, *resp.Results[0].ExistingStatus)

		assert.False(t, resp.Results[1].AlreadyAdded)
		assert.Nil(t, resp.Results[1].ExistingStatus)
	})

	t.Run("Missing query is rejected", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/catalog/search", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "missing_query", resp.Error)
	})
}

func TestCatalogProviderFailure(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router := setupCatalogRouter(t, repos, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := doJSON(t, router, "GET", "/api/catalog/search?query=matrix", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "catalog_unavailable", resp.Error)
}

func TestCatalogCacheClearEndpoint(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	requests := 0
	router := setupCatalogRouter(t, repos, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	})

	w := doJSON(t, router, "GET", "/api/catalog/popular/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "GET", "/api/catalog/popular/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, requests, "second request should come from the cache")

	w = doJSON(t, router, "DELETE", "/api/catalog/cache", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/catalog/popular/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, requests)
}
