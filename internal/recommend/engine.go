// Package recommend suggests catalog entries based on the genres the user
// already watches.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"moviemate/internal/catalog"
	"moviemate/internal/logger"
	"moviemate/internal/models"
)

const (
	topGenreCount = 3
	basedOnGenres = 2
	// DefaultMaxResults is used when the caller does not cap the result size
	DefaultMaxResults = 10
)

// EmptyCollectionMessage is returned when there is nothing to recommend from
const EmptyCollectionMessage = "Add some movies to your collection to get personalized recommendations"

// Discovery is the slice of the catalog client the engine consumes
type Discovery interface {
	DiscoverMoviesByGenre(ctx context.Context, genreID, page int) ([]catalog.Result, error)
	DiscoverTVByGenre(ctx context.Context, genreID, page int) ([]catalog.Result, error)
	HighlyRatedMovies(ctx context.Context, limit int) ([]catalog.Result, error)
}

// Recommendation is one suggested catalog entry with its reason
type Recommendation struct {
	catalog.Result
	Reason string `json:"recommendation_reason"`
}

// Result is the full recommendation payload
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	BasedOn         []string         `json:"based_on"`
	Message         string           `json:"message"`
}

// Engine aggregates the collection's genre histogram and queries the
// discovery collaborator for non-duplicate suggestions.
type Engine struct {
	discovery Discovery
}

// NewEngine creates a new recommendation engine
func NewEngine(discovery Discovery) *Engine {
	return &Engine{discovery: discovery}
}

// genreCount pairs a genre with its occurrence count
type genreCount struct {
	Genre string
	Count int
}

// Recommend produces up to maxResults suggestions not already in the
// collection. Collaborator failures during a genre pass degrade to zero
// results for that pass; the request as a whole never fails on them.
// An empty collection short-circuits with no collaborator calls.
func (e *Engine) Recommend(ctx context.Context, items []*models.MediaItem, maxResults int) *Result {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if len(items) == 0 {
		return &Result{
			Recommendations: []Recommendation{},
			BasedOn:         []string{},
			Message:         EmptyCollectionMessage,
		}
	}

	top := topGenres(items, topGenreCount)

	owned := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.CatalogID != nil {
			owned[*item.CatalogID] = true
		}
	}

	staged := make(map[int64]bool)
	recommendations := make([]Recommendation, 0, maxResults)

	for _, gc := range top {
		if len(recommendations) >= maxResults {
			break
		}

		genreID, ok := catalog.GenreID(gc.Genre)
		if !ok {
			continue
		}

		candidates := e.discoverGenre(ctx, gc.Genre, genreID)
		for _, result := range candidates {
			if owned[result.ID] || staged[result.ID] {
				continue
			}
			staged[result.ID] = true
			recommendations = append(recommendations, Recommendation{
				Result: result,
				Reason: fmt.Sprintf("Popular %s %s", gc.Genre, result.MediaType),
			})
			if len(recommendations) >= maxResults {
				break
			}
		}
	}

	if len(recommendations) < maxResults {
		recommendations = e.padWithAcclaimed(ctx, recommendations, owned, staged, maxResults)
	}

	return &Result{
		Recommendations: recommendations,
		BasedOn:         basedOn(top),
		Message:         fmt.Sprintf("Found %d recommendations based on your favorite genres", len(recommendations)),
	}
}

// discoverGenre queries both catalogs for one genre; any collaborator error
// is logged and treated as zero results for this pass.
func (e *Engine) discoverGenre(ctx context.Context, genre string, genreID int) []catalog.Result {
	movies, err := e.discovery.DiscoverMoviesByGenre(ctx, genreID, 1)
	if err != nil {
		logger.Log.Warn().Err(err).Str("genre", genre).Msg("Movie discovery failed for genre pass")
		movies = nil
	}

	shows, err := e.discovery.DiscoverTVByGenre(ctx, genreID, 1)
	if err != nil {
		logger.Log.Warn().Err(err).Str("genre", genre).Msg("TV discovery failed for genre pass")
		shows = nil
	}

	return append(movies, shows...)
}

// padWithAcclaimed fills remaining slots from the critically acclaimed list,
// applying the same de-duplication rule.
func (e *Engine) padWithAcclaimed(ctx context.Context, recommendations []Recommendation, owned, staged map[int64]bool, maxResults int) []Recommendation {
	remaining := maxResults - len(recommendations)
	acclaimed, err := e.discovery.HighlyRatedMovies(ctx, remaining)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Acclaimed fallback discovery failed")
		return recommendations
	}

	for _, result := range acclaimed {
		if owned[result.ID] || staged[result.ID] {
			continue
		}
		staged[result.ID] = true
		recommendations = append(recommendations, Recommendation{
			Result: result,
			Reason: "Critically acclaimed",
		})
		if len(recommendations) >= maxResults {
			break
		}
	}

	return recommendations
}

// Fallback returns non-personalized suggestions from the critically
// acclaimed list. It ignores the collection entirely.
func (e *Engine) Fallback(ctx context.Context, maxResults int) (*Result, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	acclaimed, err := e.discovery.HighlyRatedMovies(ctx, maxResults)
	if err != nil {
		return nil, fmt.Errorf("fallback discovery failed: %w", err)
	}

	recommendations := make([]Recommendation, 0, len(acclaimed))
	for _, result := range acclaimed {
		recommendations = append(recommendations, Recommendation{
			Result: result,
			Reason: "Critically acclaimed",
		})
	}

	return &Result{
		Recommendations: recommendations,
		BasedOn:         []string{"Critically acclaimed picks"},
		Message:         fmt.Sprintf("Found %d critically acclaimed titles", len(recommendations)),
	}, nil
}

// GenreHistogram counts genre token occurrences across the collection.
// An item contributes once per genre token, not normalized per item.
func GenreHistogram(items []*models.MediaItem) map[string]int {
	histogram := make(map[string]int)
	for _, item := range items {
		for _, genre := range item.Genres() {
			histogram[genre]++
		}
	}
	return histogram
}

// topGenres returns up to n genres by descending count.
// Ties are broken arbitrarily.
func topGenres(items []*models.MediaItem, n int) []genreCount {
	histogram := GenreHistogram(items)

	counts := make([]genreCount, 0, len(histogram))
	for genre, count := range histogram {
		counts = append(counts, genreCount{Genre: genre, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// basedOn phrases the top one or two genres driving the recommendation
func basedOn(top []genreCount) []string {
	reasons := make([]string, 0, basedOnGenres)
	for i, gc := range top {
		if i == basedOnGenres {
			break
		}
		if gc.Count == 1 {
			reasons = append(reasons, fmt.Sprintf("Your interest in %s", gc.Genre))
		} else {
			reasons = append(reasons, fmt.Sprintf("Your %d %s movies", gc.Count, gc.Genre))
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Your movie collection preferences")
	}
	return reasons
}
