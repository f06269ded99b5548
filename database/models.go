package database

import "time"

// Migration models. These define the remote schema only; runtime access
// goes through the generic store in internal/remote, so the services never
// touch these structs.

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
}

func (User) TableName() string { return "users" }

type RefreshToken struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// WatchHistory keys one row per watched title, or per episode for TV.
type WatchHistory struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"uniqueIndex:idx_watch_identity;index"`
	TMDBID        int64  `gorm:"column:tmdb_id;uniqueIndex:idx_watch_identity"`
	Type          string `gorm:"uniqueIndex:idx_watch_identity"`
	SeasonNumber  *int   `gorm:"uniqueIndex:idx_watch_identity"`
	EpisodeNumber *int   `gorm:"uniqueIndex:idx_watch_identity"`
	Title         string
	PosterPath    *string
	Progress      float64
	Duration      *int
	LastPosition  *int
	LastWatched   time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (WatchHistory) TableName() string { return "watch_history" }

// UserProgress is the show-level resume pointer, one row per (user, show).
type UserProgress struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_progress_identity"`
	TMDBID    int64  `gorm:"column:tmdb_id;uniqueIndex:idx_progress_identity"`
	Season    int
	Episode   int
	UpdatedAt time.Time
}

func (UserProgress) TableName() string { return "user_progress" }

// UserMedia is saved-list membership (watchlist).
type UserMedia struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     string `gorm:"uniqueIndex:idx_media_identity"`
	TMDBID     int64  `gorm:"column:tmdb_id;uniqueIndex:idx_media_identity"`
	ListType   string `gorm:"uniqueIndex:idx_media_identity"`
	Type       string
	Title      string
	PosterPath *string
	CreatedAt  time.Time
}

func (UserMedia) TableName() string { return "user_media" }
