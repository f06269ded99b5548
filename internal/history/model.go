package history

import (
	"time"

	"streame/internal/remote"
	"streame/internal/shared"
)

// Table is the logical remote table holding watch-history rows.
const Table = "watch_history"

// ConflictCols is the identity key of a watch-history record. At most one
// row exists per key; writes are upserts, never appends.
var ConflictCols = []string{"user_id", "tmdb_id", "type", "season_number", "episode_number"}

// Record is one unit of watch progress for a single user and a single
// playable unit (a movie, or one episode of a show).
type Record struct {
	UserID          string `json:"user_id" gorm:"column:user_id"`
	shared.MediaRef `gorm:"embedded"`
	Title           string    `json:"title" gorm:"column:title"`
	PosterPath      *string   `json:"poster_path" gorm:"column:poster_path"`
	Progress        float64   `json:"progress" gorm:"column:progress"`
	Duration        *int      `json:"duration,omitempty" gorm:"column:duration"`
	LastPosition    *int      `json:"last_position,omitempty" gorm:"column:last_position"`
	LastWatched     time.Time `json:"last_watched" gorm:"column:last_watched"`
	UpdatedAt       time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// Row flattens the record for a remote upsert. Duration and position are
// rounded to whole seconds and dropped when non-positive, because some
// players report junk for them.
func (r Record) Row() remote.Row {
	row := remote.Row{
		"user_id":        r.UserID,
		"tmdb_id":        r.TMDBID,
		"type":           string(r.Type),
		"title":          r.Title,
		"poster_path":    r.PosterPath,
		"progress":       r.Progress,
		"duration":       r.Duration,
		"last_position":  r.LastPosition,
		"season_number":  r.Season,
		"episode_number": r.Episode,
		"last_watched":   r.LastWatched,
		"updated_at":     r.UpdatedAt,
	}
	return row
}

// normalize clamps progress into [0, 100] and discards nonsensical duration
// and position values before the record touches any store.
func (r *Record) normalize(now time.Time) {
	if r.Progress < 0 {
		r.Progress = 0
	}
	if r.Progress > 100 {
		r.Progress = 100
	}
	if r.Duration != nil && *r.Duration <= 0 {
		r.Duration = nil
	}
	if r.LastPosition != nil && *r.LastPosition < 0 {
		r.LastPosition = nil
	}
	if r.LastWatched.IsZero() {
		r.LastWatched = now
	}
	r.UpdatedAt = now
}
