package tmdb

// Page wraps every paginated TMDB list response.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Movie is one movie as returned in list responses.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// TVShow is one show as returned in list responses.
type TVShow struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// MediaItem is one result from multi search or all-media trending, where
// movies and shows mix in a single list.
type MediaItem struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// Genre is one genre tag on a details response.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full movie record.
type MovieDetails struct {
	Movie
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
	Status  string  `json:"status"`
	Tagline string  `json:"tagline"`
	IMDBID  string  `json:"imdb_id"`
}

// Season is one season summary on a TV details response.
type Season struct {
	SeasonNumber int     `json:"season_number"`
	Name         string  `json:"name"`
	EpisodeCount int     `json:"episode_count"`
	PosterPath   *string `json:"poster_path"`
	AirDate      string  `json:"air_date"`
}

// TVShowDetails is the full show record.
type TVShowDetails struct {
	TVShow
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	EpisodeRunTime   []int    `json:"episode_run_time"`
	Genres           []Genre  `json:"genres"`
	Seasons          []Season `json:"seasons"`
	Status           string   `json:"status"`
}

// CastMember is one credited actor.
type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// CrewMember is one credited crew role.
type CrewMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
}

// Credits is the cast and crew for a title.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is one trailer/teaser/clip reference.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Videos is the video list for a title.
type Videos struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}
