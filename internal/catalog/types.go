package catalog

// Result is a single search/discovery entry from the metadata provider
type Result struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate *string `json:"release_date,omitempty"`
	Overview    *string `json:"overview,omitempty"`
	PosterPath  *string `json:"poster_path,omitempty"`
	MediaType   string  `json:"media_type"`
	VoteAverage float64 `json:"vote_average"`
	IsTVShow    bool    `json:"is_tv_show"`
	Popularity  float64 `json:"popularity"`
}

// Details is the full metadata record for one movie or show
type Details struct {
	Title           string  `json:"title"`
	Director        string  `json:"director"`
	Genre           string  `json:"genre"`
	Overview        *string `json:"overview,omitempty"`
	PosterPath      *string `json:"poster_path,omitempty"`
	ReleaseDate     *string `json:"release_date,omitempty"`
	TotalEpisodes   *int    `json:"total_episodes,omitempty"`
	NumberOfSeasons *int    `json:"number_of_seasons,omitempty"`
	TotalMinutes    int     `json:"total_minutes"`
}

// Provider genre ids keyed by genre name
var genreIDs = map[string]int{
	"Action": 28, "Adventure": 12, "Animation": 16, "Comedy": 35,
	"Crime": 80, "Documentary": 99, "Drama": 18, "Family": 10751,
	"Fantasy": 14, "History": 36, "Horror": 27, "Music": 10402,
	"Mystery": 9648, "Romance": 10749, "Science Fiction": 878,
	"TV Movie": 10770, "Thriller": 53, "War": 10752, "Western": 37,
}

// GenreID returns the provider's id for a genre name
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[name]
	return id, ok
}

// wire types for provider responses

type listResponse struct {
	Results []listItem `json:"results"`
}

type listItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	MediaType    string  `json:"media_type"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

type detailsResponse struct {
	Title            string       `json:"title"`
	Name             string       `json:"name"`
	Overview         string       `json:"overview"`
	PosterPath       string       `json:"poster_path"`
	ReleaseDate      string       `json:"release_date"`
	FirstAirDate     string       `json:"first_air_date"`
	Runtime          int          `json:"runtime"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	Genres           []namedEntry `json:"genres"`
	CreatedBy        []namedEntry `json:"created_by"`
}

type namedEntry struct {
	Name string `json:"name"`
}
