package dto

type AddWatchlistRequest struct {
	TMDBID     int64   `json:"tmdb_id" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	PosterPath *string `json:"poster_path"`
}
