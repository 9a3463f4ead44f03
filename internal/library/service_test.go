package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moviemate/internal/catalog"
	"moviemate/internal/config"
	"moviemate/internal/db"
	"moviemate/internal/models"
	"moviemate/internal/review"
)

// fakeCatalog serves canned details keyed by catalog id
type fakeCatalog struct {
	details map[int64]*catalog.Details
	calls   int
}

func (f *fakeCatalog) Details(ctx context.Context, catalogID int64, isTV bool) (*catalog.Details, error) {
	f.calls++
	return f.details[catalogID], nil
}

// setupTestService creates a service with a test database and fake provider
func setupTestService(t *testing.T) (*Service, *fakeCatalog, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB))

	catalogStub := &fakeCatalog{details: map[int64]*catalog.Details{}}
	reviews := review.NewGenerator(review.NewClient(config.ReviewConfig{}))
	service := NewService(db.NewRepositories(database), catalogStub, reviews)

	cleanup := func() {
		_ = database.Close()
	}
	return service, catalogStub, cleanup
}

func addTestItem(t *testing.T, service *Service, p AddParams) *models.MediaItem {
	t.Helper()

	if p.Platform == "" {
		p.Platform = "Netflix"
	}
	item, err := service.Add(context.Background(), p)
	require.NoError(t, err)
	return item
}

func TestAdd_Defaults(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	item := addTestItem(t, service, AddParams{Title: "Heat"})

	assert.Equal(t, models.StatusWishlist, item.Status)
	assert.Equal(t, 0, item.EpisodesWatched)
	assert.Equal(t, 0, item.MinutesWatched)
	assert.Nil(t, item.Rating)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestAdd_PlatformRequired(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Add(context.Background(), AddParams{Title: "Heat", Platform: "   "})
	assert.ErrorIs(t, err, ErrPlatformRequired)
}

func TestAdd_InvalidStatus(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Add(context.Background(), AddParams{
		Title:    "Heat",
		Platform: "Netflix",
		Status:   "binged",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdd_DuplicateCatalogID(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	catalogID := int64(603)
	addTestItem(t, service, AddParams{Title: "The Matrix", CatalogID: &catalogID})

	_, err := service.Add(ctx, AddParams{
		Title:     "The Matrix again",
		Platform:  "Netflix",
		CatalogID: &catalogID,
	})
	assert.True(t, IsDuplicateCatalogID(err))
}

func TestAdd_CatalogEnrichment(t *testing.T) {
	service, catalogStub, cleanup := setupTestService(t)
	defer cleanup()

	catalogID := int64(603)
	overview := "A hacker discovers reality is a simulation."
	catalogStub.details[catalogID] = &catalog.Details{
		Title:        "The Matrix",
		Director:     "Lana Wachowski",
		Genre:        "Action, Science Fiction",
		Overview:     &overview,
		TotalMinutes: 136,
	}

	item := addTestItem(t, service, AddParams{Title: "matrix", CatalogID: &catalogID})

	assert.Equal(t, "The Matrix", item.Title)
	assert.Equal(t, "Lana Wachowski", item.Director)
	require.NotNil(t, item.TotalMinutes)
	assert.Equal(t, 136, *item.TotalMinutes)
	assert.Equal(t, 1, catalogStub.calls)
}

func TestAddFromCatalog(t *testing.T) {
	service, catalogStub, cleanup := setupTestService(t)
	defer cleanup()

	catalogStub.details[1399] = &catalog.Details{
		Title:         "Game of Thrones",
		Director:      "David Benioff, D.B. Weiss",
		Genre:         "Drama, Fantasy",
		TotalEpisodes: intPtr(73),
		TotalMinutes:  73 * models.EpisodeDurationMinutes,
	}

	item, err := service.AddFromCatalog(context.Background(), 1399, "HBO", "", true)
	require.NoError(t, err)

	assert.Equal(t, "Game of Thrones", item.Title)
	assert.Equal(t, models.StatusWishlist, item.Status)
	assert.True(t, item.IsTVShow)
	assert.Equal(t, 0, item.EpisodesWatched)
	require.NotNil(t, item.TotalEpisodes)
	assert.Equal(t, 73, *item.TotalEpisodes)
}

func TestAddFromCatalog_UnknownID(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.AddFromCatalog(context.Background(), 999999, "HBO", "", false)
	assert.ErrorIs(t, err, ErrCatalogDetailsNotFound)
}

func TestGet_NotFound(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Get(context.Background(), uuid.New())
	assert.True(t, IsMediaNotFound(err))
}

func TestList_Filters(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	addTestItem(t, service, AddParams{Title: "Heat", Genre: "Crime, Drama", Platform: "Netflix"})
	addTestItem(t, service, AddParams{Title: "Alien", Genre: "Horror", Platform: "Hulu", Status: models.StatusCompleted})

	byGenre, err := service.List(ctx, db.MediaFilters{Genre: "Crime"})
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, "Heat", byGenre[0].Title)

	byStatus, err := service.List(ctx, db.MediaFilters{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Alien", byStatus[0].Title)

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate_RatingBounds(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	item := addTestItem(t, service, AddParams{Title: "Heat"})

	bad := 11.0
	_, err := service.Update(ctx, item.ID, UpdateParams{Rating: &bad})
	assert.ErrorIs(t, err, ErrInvalidRating)

	good := 7.5
	updated, err := service.Update(ctx, item.ID, UpdateParams{Rating: &good})
	require.NoError(t, err)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 7.5, *updated.Rating)
}

func TestUpdate_EpisodeProgress(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	item := addTestItem(t, service, AddParams{
		Title:         "Dark",
		IsTVShow:      true,
		TotalEpisodes: intPtr(26),
	})

	// Watching some episodes recomputes minutes and moves to watching
	updated, err := service.Update(ctx, item.ID, UpdateParams{EpisodesWatched: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.EpisodesWatched)
	assert.Equal(t, 10*models.EpisodeDurationMinutes, updated.MinutesWatched)
	assert.Equal(t, models.StatusWatching, updated.Status)

	// Reaching the total completes the show
	updated, err = service.Update(ctx, item.ID, UpdateParams{EpisodesWatched: intPtr(26)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Resetting to zero goes back to the wishlist
	updated, err = service.Update(ctx, item.ID, UpdateParams{EpisodesWatched: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWishlist, updated.Status)
	assert.Equal(t, 0, updated.MinutesWatched)
}

func TestUpdate_NegativeEpisodesClamped(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	item := addTestItem(t, service, AddParams{
		Title:         "Dark",
		IsTVShow:      true,
		TotalEpisodes: intPtr(26),
	})

	updated, err := service.Update(context.Background(), item.ID, UpdateParams{EpisodesWatched: intPtr(-5)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.EpisodesWatched)
	assert.Equal(t, models.StatusWishlist, updated.Status)
}

func TestUpdateRatingReview(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	item := addTestItem(t, service, AddParams{Title: "Heat"})

	rating := 9.0
	text := "A masterpiece of the genre."
	updated, err := service.UpdateRatingReview(ctx, item.ID, &rating, &text)
	require.NoError(t, err)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 9.0, *updated.Rating)
	require.NotNil(t, updated.Review)
	assert.Equal(t, text, *updated.Review)
}

func TestDelete(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	item := addTestItem(t, service, AddParams{Title: "Heat"})

	require.NoError(t, service.Delete(ctx, item.ID))

	_, err := service.Get(ctx, item.ID)
	assert.True(t, IsMediaNotFound(err))

	err = service.Delete(ctx, item.ID)
	assert.True(t, IsMediaNotFound(err))
}

func TestGenerateReview_NotPersisted(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	item := addTestItem(t, service, AddParams{Title: "Heat"})

	rating := 9.5
	text, err := service.GenerateReview(ctx, item.ID, "great pacing", &rating, review.LengthShort)
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	// Generation never writes the review back
	fresh, err := service.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.Review)
}

func TestGetStats(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	first := addTestItem(t, service, AddParams{Title: "Heat", Status: models.StatusCompleted, MinutesWatched: 170})
	addTestItem(t, service, AddParams{Title: "Alien", Status: models.StatusWatching, MinutesWatched: 60})
	addTestItem(t, service, AddParams{Title: "Dune"})

	rating := 8.5
	_, err := service.UpdateRatingReview(ctx, first.ID, &rating, nil)
	require.NoError(t, err)

	stats, err := service.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Watching)
	assert.Equal(t, int64(1), stats.Wishlist)
	assert.Equal(t, 8.5, stats.AverageRating)
	assert.Equal(t, int64(230), stats.TotalMinutesWatched)
}

func TestGetStats_EmptyCollection(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0.0, stats.AverageRating)
}

func intPtr(v int) *int {
	return &v
}
