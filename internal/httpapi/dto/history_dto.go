package dto

import "time"

// SaveHistoryRequest is the watch-history write payload. The same shape is
// accepted on the regular save route and the fire-and-forget unload beacon.
type SaveHistoryRequest struct {
	TMDBID        int64      `json:"tmdb_id" binding:"required"`
	Type          string     `json:"type" binding:"required"`
	SeasonNumber  *int       `json:"season_number"`
	EpisodeNumber *int       `json:"episode_number"`
	Title         string     `json:"title" binding:"required"`
	PosterPath    *string    `json:"poster_path"`
	Progress      float64    `json:"progress"`
	Duration      *int       `json:"duration"`
	LastPosition  *int       `json:"last_position"`
	LastWatched   *time.Time `json:"last_watched"`
}
