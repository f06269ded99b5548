// Package usermedia manages the user's saved lists (currently just the
// watchlist) in the remote store.
package usermedia

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"streame/internal/remote"
	"streame/internal/shared"
)

// Table is the logical remote table holding list membership rows.
const Table = "user_media"

// ListType names a saved list. Watchlist is the only one today.
type ListType string

const ListWatchlist ListType = "watchlist"

var conflictCols = []string{"user_id", "tmdb_id", "list_type"}

// Item is one list entry with enough metadata to render a card without a
// catalog round-trip.
type Item struct {
	TMDBID     int64            `json:"tmdb_id" gorm:"column:tmdb_id"`
	Type       shared.MediaType `json:"type" gorm:"column:type"`
	Title      string           `json:"title" gorm:"column:title"`
	PosterPath *string          `json:"poster_path" gorm:"column:poster_path"`
	ListType   ListType         `json:"list_type" gorm:"column:list_type"`
	CreatedAt  time.Time        `json:"created_at,omitempty" gorm:"column:created_at"`
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

// Add upserts item into the named list. Re-adding an existing entry is
// harmless.
func (s *Service) Add(ctx context.Context, userID string, item Item, list ListType) error {
	if userID == "" {
		return nil
	}
	if !item.Type.Valid() {
		return fmt.Errorf("invalid media type %q", item.Type)
	}

	row := remote.Row{
		"user_id":     userID,
		"tmdb_id":     item.TMDBID,
		"type":        string(item.Type),
		"title":       item.Title,
		"poster_path": item.PosterPath,
		"list_type":   string(list),
		"created_at":  s.now().UTC(),
	}
	if err := s.remote.Upsert(ctx, Table, row, conflictCols); err != nil {
		if remote.IsNotConfigured(err) {
			return nil
		}
		return fmt.Errorf("failed to add to %s: %w", list, err)
	}
	return nil
}

// Remove drops the entry for tmdbID from the named list.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64, list ListType) error {
	if userID == "" {
		return nil
	}
	err := s.remote.Delete(ctx, Table, remote.Filter{
		"user_id":   userID,
		"tmdb_id":   tmdbID,
		"list_type": string(list),
	})
	if err != nil {
		if remote.IsNotConfigured(err) {
			return nil
		}
		return fmt.Errorf("failed to remove from %s: %w", list, err)
	}
	return nil
}

// List returns the entries of the named list, newest first.
func (s *Service) List(ctx context.Context, userID string, list ListType) ([]Item, error) {
	if userID == "" {
		return []Item{}, nil
	}

	var items []Item
	err := s.remote.Select(ctx, Table,
		remote.Filter{"user_id": userID, "list_type": string(list)},
		"created_at desc", 0, &items)
	if err != nil {
		if remote.IsNotConfigured(err) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", list, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
