// Package progress tracks the show-level "last watched season/episode"
// pointer that lets the player page resume a show at the right episode.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"streame/internal/remote"
	"streame/internal/shared"
)

// Table is the logical remote table holding one pointer row per
// (user, show).
const Table = "user_progress"

var conflictCols = []string{"user_id", "tmdb_id"}

type pointerRow struct {
	Season  int       `json:"season"`
	Episode int       `json:"episode"`
	Updated time.Time `json:"updated_at"`
}

type Service struct {
	remote remote.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store remote.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{remote: store, logger: logger, now: time.Now}
}

// Get returns the saved pointer for a show, or nil when none exists. A
// missing remote configuration reads as "no pointer" rather than an error.
func (s *Service) Get(ctx context.Context, userID string, tmdbID int64) (*shared.TVProgress, error) {
	if userID == "" {
		return nil, nil
	}

	var rows []pointerRow
	err := s.remote.Select(ctx, Table,
		remote.Filter{"user_id": userID, "tmdb_id": tmdbID},
		"", 1, &rows)
	if err != nil {
		if remote.IsNotConfigured(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load progress pointer: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &shared.TVProgress{
		Season:  rows[0].Season,
		Episode: rows[0].Episode,
		Updated: rows[0].Updated,
	}, nil
}

// Set upserts the pointer for a show. A missing remote configuration makes
// this a no-op.
func (s *Service) Set(ctx context.Context, userID string, tmdbID int64, p shared.TVProgress) error {
	if userID == "" {
		return nil
	}

	row := remote.Row{
		"user_id":    userID,
		"tmdb_id":    tmdbID,
		"season":     p.Season,
		"episode":    p.Episode,
		"updated_at": s.now().UTC(),
	}
	if err := s.remote.Upsert(ctx, Table, row, conflictCols); err != nil {
		if remote.IsNotConfigured(err) {
			return nil
		}
		return fmt.Errorf("failed to save progress pointer: %w", err)
	}
	return nil
}
