// Package catalog provides the client for the external movie/show metadata
// provider, with a TTL cache over all lookups.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"moviemate/internal/config"
	"moviemate/internal/logger"
	"moviemate/internal/models"
)

const (
	// MaxSearchResults caps text-search responses for faster rendering
	MaxSearchResults = 3
	// MinGoodRating is the vote floor for "popular" listings
	MinGoodRating = 7.0
	// MinTopRating is the vote floor for top-rated and highly-rated listings
	MinTopRating = 8.0

	cacheCleanupFactor = 2
	defaultRuntimeMins = 120
	episodesPerSeason  = 10
)

// Client talks to the metadata provider. Responses are cached per call
// signature for the configured TTL; expired entries are evicted by the
// cache janitor rather than accumulating.
type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	imageURL    string
	httpClient  *http.Client
	cache       *gocache.Cache
}

// NewClient creates a new metadata provider client
func NewClient(cfg config.CatalogConfig) *Client {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		logger.Log.Warn().Msg("No catalog credentials configured, lookups will return empty results")
	}

	return &Client{
		apiKey:      cfg.APIKey,
		accessToken: cfg.AccessToken,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		imageURL:    strings.TrimRight(cfg.ImageURL, "/"),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		cache:       gocache.New(cfg.CacheTTL, cacheCleanupFactor*cfg.CacheTTL),
	}
}

// configured reports whether any credential is present
func (c *Client) configured() bool {
	return c.apiKey != "" || c.accessToken != ""
}

// cacheKey builds a stable key from the method name and its parameters
func cacheKey(method string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{method}
	for _, k := range keys {
		parts = append(parts, k+":"+params[k])
	}
	return strings.Join(parts, ":")
}

// doGet performs a GET against the provider and decodes the JSON response
func (c *Client) doGet(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// posterURL prefixes a poster path with the image base URL
func (c *Client) posterURL(path string) *string {
	if path == "" {
		return nil
	}
	full := c.imageURL + path
	return &full
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toResult converts a provider list item into a Result
func (c *Client) toResult(item listItem, mediaType string) Result {
	title := item.Title
	release := item.ReleaseDate
	if mediaType == "tv" {
		title = item.Name
		release = item.FirstAirDate
	}
	return Result{
		ID:          item.ID,
		Title:       title,
		ReleaseDate: optString(release),
		Overview:    optString(item.Overview),
		PosterPath:  c.posterURL(item.PosterPath),
		MediaType:   mediaType,
		VoteAverage: item.VoteAverage,
		IsTVShow:    mediaType == "tv",
		Popularity:  item.Popularity,
	}
}

// Search queries the provider's multi-search endpoint and returns up to
// MaxSearchResults entries sorted by popularity then vote average.
func (c *Client) Search(ctx context.Context, query string, page int) ([]Result, error) {
	key := cacheKey("search", map[string]string{"query": query, "page": strconv.Itoa(page)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}

	if !c.configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var resp listResponse
	if err := c.doGet(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.MediaType != "movie" && item.MediaType != "tv" {
			continue
		}
		results = append(results, c.toResult(item, item.MediaType))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Popularity != results[j].Popularity {
			return results[i].Popularity > results[j].Popularity
		}
		return results[i].VoteAverage > results[j].VoteAverage
	})

	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}

	c.cache.SetDefault(key, results)
	return results, nil
}

// Details fetches full metadata for one movie or show.
// Total minutes falls back to a 120-minute runtime for movies; shows use
// episodes x average episode length, estimating ten episodes per season
// when the provider has no episode count.
func (c *Client) Details(ctx context.Context, catalogID int64, isTV bool) (*Details, error) {
	key := cacheKey("details", map[string]string{"id": strconv.FormatInt(catalogID, 10), "tv": strconv.FormatBool(isTV)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Details), nil
	}

	if !c.configured() {
		return nil, nil
	}

	mediaType := "movie"
	if isTV {
		mediaType = "tv"
	}

	var resp detailsResponse
	if err := c.doGet(ctx, fmt.Sprintf("/%s/%d", mediaType, catalogID), url.Values{}, &resp); err != nil {
		return nil, err
	}

	details := &Details{
		Title:       resp.Title,
		Director:    "Not specified",
		Genre:       "Not specified",
		Overview:    optString(resp.Overview),
		PosterPath:  c.posterURL(resp.PosterPath),
		ReleaseDate: optString(resp.ReleaseDate),
	}

	if isTV {
		details.Title = resp.Name
		details.ReleaseDate = optString(resp.FirstAirDate)

		creators := make([]string, 0, 2)
		for _, entry := range resp.CreatedBy {
			creators = append(creators, entry.Name)
			if len(creators) == 2 {
				break
			}
		}
		if len(creators) > 0 {
			details.Director = strings.Join(creators, ", ")
		}

		if resp.NumberOfEpisodes > 0 {
			episodes := resp.NumberOfEpisodes
			details.TotalEpisodes = &episodes
			details.TotalMinutes = episodes * models.EpisodeDurationMinutes
		} else {
			seasons := resp.NumberOfSeasons
			if seasons < 1 {
				seasons = 1
			}
			details.TotalMinutes = seasons * episodesPerSeason * models.EpisodeDurationMinutes
		}
		if resp.NumberOfSeasons > 0 {
			seasons := resp.NumberOfSeasons
			details.NumberOfSeasons = &seasons
		}
	} else {
		if resp.Runtime > 0 {
			details.TotalMinutes = resp.Runtime
		} else {
			details.TotalMinutes = defaultRuntimeMins
		}
	}

	genres := make([]string, 0, 3)
	for _, g := range resp.Genres {
		genres = append(genres, g.Name)
		if len(genres) == 3 {
			break
		}
	}
	if len(genres) > 0 {
		details.Genre = strings.Join(genres, ", ")
	}

	c.cache.SetDefault(key, details)
	return details, nil
}

// discover runs a discovery query and converts the results
func (c *Client) discover(ctx context.Context, mediaType, keyName string, params url.Values) ([]Result, error) {
	if !c.configured() {
		return nil, nil
	}

	var resp listResponse
	if err := c.doGet(ctx, "/discover/"+mediaType, params, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		results = append(results, c.toResult(item, mediaType))
	}

	c.cache.SetDefault(keyName, results)
	return results, nil
}

// DiscoverMoviesByGenre returns popular movies in the given genre
func (c *Client) DiscoverMoviesByGenre(ctx context.Context, genreID, page int) ([]Result, error) {
	key := cacheKey("discover_movies", map[string]string{"genre": strconv.Itoa(genreID), "page": strconv.Itoa(page)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")

	return c.discover(ctx, "movie", key, params)
}

// DiscoverTVByGenre returns popular TV shows in the given genre
func (c *Client) DiscoverTVByGenre(ctx context.Context, genreID, page int) ([]Result, error) {
	key := cacheKey("discover_tv", map[string]string{"genre": strconv.Itoa(genreID), "page": strconv.Itoa(page)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")

	return c.discover(ctx, "tv", key, params)
}

// ranked fetches a listing endpoint and keeps entries at or above minVote
func (c *Client) ranked(ctx context.Context, path, mediaType, keyName string, minVote float64, limit int, sortByVote bool) ([]Result, error) {
	if !c.configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("page", "1")

	var resp listResponse
	if err := c.doGet(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.VoteAverage < minVote {
			continue
		}
		results = append(results, c.toResult(item, mediaType))
	}

	if sortByVote {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].VoteAverage > results[j].VoteAverage
		})
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	c.cache.SetDefault(keyName, results)
	return results, nil
}

// PopularMovies returns popular movies rated MinGoodRating or better
func (c *Client) PopularMovies(ctx context.Context, limit int) ([]Result, error) {
	key := cacheKey("popular_movies", map[string]string{"limit": strconv.Itoa(limit)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}
	return c.ranked(ctx, "/movie/popular", "movie", key, MinGoodRating, limit, true)
}

// PopularTV returns popular TV shows rated MinGoodRating or better
func (c *Client) PopularTV(ctx context.Context, limit int) ([]Result, error) {
	key := cacheKey("popular_tv", map[string]string{"limit": strconv.Itoa(limit)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}
	return c.ranked(ctx, "/tv/popular", "tv", key, MinGoodRating, limit, true)
}

// TopRatedMovies returns top-rated movies at MinTopRating or better
func (c *Client) TopRatedMovies(ctx context.Context, limit int) ([]Result, error) {
	key := cacheKey("top_rated_movies", map[string]string{"limit": strconv.Itoa(limit)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}
	return c.ranked(ctx, "/movie/top_rated", "movie", key, MinTopRating, limit, false)
}

// TopRatedTV returns top-rated TV shows at MinTopRating or better
func (c *Client) TopRatedTV(ctx context.Context, limit int) ([]Result, error) {
	key := cacheKey("top_rated_tv", map[string]string{"limit": strconv.Itoa(limit)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}
	return c.ranked(ctx, "/tv/top_rated", "tv", key, MinTopRating, limit, false)
}

// HighlyRatedMovies returns movies rated MinTopRating or better from the
// discover endpoint, requiring a vote count high enough to be credible.
func (c *Client) HighlyRatedMovies(ctx context.Context, limit int) ([]Result, error) {
	key := cacheKey("highly_rated_movies", map[string]string{"limit": strconv.Itoa(limit)})
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Result), nil
	}

	if !c.configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("sort_by", "vote_average.desc")
	params.Set("vote_average.gte", strconv.FormatFloat(MinTopRating, 'f', 1, 64))
	params.Set("vote_count.gte", "1000")
	params.Set("include_adult", "false")

	var resp listResponse
	if err := c.doGet(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		results = append(results, c.toResult(item, "movie"))
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	c.cache.SetDefault(key, results)
	return results, nil
}

// ClearCache drops all cached provider responses
func (c *Client) ClearCache() {
	c.cache.Flush()
	logger.Log.Info().Msg("Catalog cache cleared")
}
