package shared

import "time"

// shared types across the application
// 1st: media identity used by watch history, watchlist and the progress pointer
// 2nd: auth claims structure for JWT authentication in the HTTP API
// 3rd: add more shared types as needed

// MediaType distinguishes movies from TV shows. Season/episode numbers are
// only meaningful for TV.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether t is one of the two known media types.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// MediaRef identifies one playable unit: a movie, or one episode of a show.
// Season and Episode are nil for movies and do not participate in matching
// beyond Type.
type MediaRef struct {
	TMDBID  int64     `json:"tmdb_id" gorm:"column:tmdb_id"`
	Type    MediaType `json:"type" gorm:"column:type"`
	Season  *int      `json:"season_number,omitempty" gorm:"column:season_number"`
	Episode *int      `json:"episode_number,omitempty" gorm:"column:episode_number"`
}

// SameKey reports whether two refs identify the same playable unit.
// Movies compare on (tmdb_id, type) only.
func (m MediaRef) SameKey(o MediaRef) bool {
	if m.TMDBID != o.TMDBID || m.Type != o.Type {
		return false
	}
	if m.Type == MediaTypeMovie {
		return true
	}
	return intPtrEq(m.Season, o.Season) && intPtrEq(m.Episode, o.Episode)
}

// SameTitle reports whether two refs belong to the same title, ignoring
// season/episode. Removal from continue watching matches on this.
func (m MediaRef) SameTitle(o MediaRef) bool {
	return m.TMDBID == o.TMDBID && m.Type == o.Type
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type AuthClaims struct {
	UserID string `json:"user_id"` // user identifier (UUID)
	Email  string `json:"email"`
}

// TVProgress is the show-level "where did I leave off" pointer.
type TVProgress struct {
	Season  int       `json:"season"`
	Episode int       `json:"episode"`
	Updated time.Time `json:"updated_at,omitempty"`
}
