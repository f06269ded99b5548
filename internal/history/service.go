package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"streame/internal/remote"
	"streame/internal/shared"
)

const (
	// DefaultListLimit matches the continue-watching row size.
	DefaultListLimit = 20
	// queueHighWatermark is where we start warning about a backlog that is
	// not draining.
	queueHighWatermark = 100
)

// Service is the sync engine for watch history. Writes land in the local
// mirror first and reach the remote store best-effort; the offline queue
// holds whatever the remote has not acknowledged and is drained inline at
// the start of every read and write.
type Service struct {
	remote remote.Store
	cache  *LocalCache
	queue  *Queue
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store remote.Store, cache *LocalCache, queue *Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		remote: store,
		cache:  cache,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// SyncOfflineQueue attempts one flush pass over the current queue snapshot.
// Each entry is upserted independently; entries that fail stay queued in
// their original relative order for the next pass. There is no backoff and
// no retry cap.
func (s *Service) SyncOfflineQueue(ctx context.Context) {
	queue := s.queue.Snapshot()
	if len(queue) == 0 {
		return
	}
	if len(queue) >= queueHighWatermark {
		s.logger.Warn("offline_queue_high_watermark", "queue_depth", len(queue))
	}

	synced := make(map[int]bool)
	for i, item := range queue {
		if err := s.remote.Upsert(ctx, Table, item.Row(), ConflictCols); err != nil {
			s.logger.Debug("offline_queue_entry_sync_failed",
				"user_id", item.UserID,
				"tmdb_id", item.TMDBID,
				"error", err,
			)
			continue
		}
		synced[i] = true
	}

	if len(synced) == 0 {
		return
	}

	remaining := make([]Record, 0, len(queue)-len(synced))
	for i, item := range queue {
		if !synced[i] {
			remaining = append(remaining, item)
		}
	}
	s.queue.Rewrite(remaining)

	s.logger.Info("offline_queue_synced",
		"flushed", len(synced),
		"remaining", len(remaining),
	)
}

// Add upserts one watch-progress record. The local mirror is updated
// unconditionally first so reads reflect the write even if the network is
// down; a failed remote upsert parks the record in the offline queue and the
// call still reports success, because the local state already matches the
// caller's intent.
func (s *Service) Add(ctx context.Context, userID string, rec Record) error {
	if userID == "" {
		// No user: persistence is a no-op.
		return nil
	}
	rec.UserID = userID
	if !rec.Type.Valid() {
		return fmt.Errorf("invalid media type %q", rec.Type)
	}
	rec.normalize(s.now())

	s.cache.Update(userID, rec)

	s.SyncOfflineQueue(ctx)

	if err := s.remote.Upsert(ctx, Table, rec.Row(), ConflictCols); err != nil {
		s.queue.Add(rec)
		s.logger.Warn("history_saved_offline",
			"user_id", userID,
			"tmdb_id", rec.TMDBID,
			"type", rec.Type,
			"error", err,
		)
	}
	return nil
}

// List returns the most recent records for userID, newest first. A
// successful remote read refreshes the local mirror wholesale; a failed one
// falls back to the mirror. The boolean reports whether the result came from
// the fallback, so the caller can distinguish fresh data from stale.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Record, bool, error) {
	if userID == "" {
		return []Record{}, false, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.SyncOfflineQueue(ctx)

	var records []Record
	err := s.remote.Select(ctx, Table,
		remote.Filter{"user_id": userID},
		"last_watched desc", limit, &records)
	if err != nil {
		s.logger.Warn("history_list_fallback_to_cache",
			"user_id", userID,
			"error", err,
		)
		return s.cache.List(userID), true, nil
	}

	if records == nil {
		records = []Record{}
	}
	s.cache.ReplaceAll(userID, records)
	return records, false, nil
}

// Get looks up a single record by identity key. Season/episode narrow the
// match only for TV lookups that provide both.
func (s *Service) Get(ctx context.Context, userID string, ref shared.MediaRef) (*Record, error) {
	if userID == "" {
		return nil, nil
	}
	filter := remote.Filter{
		"user_id": userID,
		"tmdb_id": ref.TMDBID,
		"type":    string(ref.Type),
	}
	if ref.Type == shared.MediaTypeTV && ref.Season != nil && ref.Episode != nil {
		filter["season_number"] = *ref.Season
		filter["episode_number"] = *ref.Episode
	}

	var records []Record
	if err := s.remote.Select(ctx, Table, filter, "", 1, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Remove purges all history for (tmdbID, mediaType), including every
// episode of a show, so the title fully leaves continue watching. Local
// state is scrubbed first; a failed remote delete is logged and not surfaced,
// because deletes never enter the offline queue and the next sync pass
// cannot resurrect the item.
func (s *Service) Remove(ctx context.Context, userID string, tmdbID int64, mediaType shared.MediaType) error {
	if userID == "" {
		return nil
	}

	s.cache.RemoveTitle(userID, tmdbID, mediaType)
	s.queue.RemoveTitle(tmdbID, mediaType)

	err := s.remote.Delete(ctx, Table, remote.Filter{
		"user_id": userID,
		"tmdb_id": tmdbID,
		"type":    string(mediaType),
	})
	if err != nil {
		s.logger.Warn("history_remote_delete_failed",
			"user_id", userID,
			"tmdb_id", tmdbID,
			"error", err,
		)
	}
	return nil
}

// Clear deletes all history for userID. Unlike Add and Remove this
// propagates a remote failure and leaves the local mirror untouched: there
// is no meaningful partial state to show once a clear was requested, so the
// caller must know it did not happen.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	if err := s.remote.Delete(ctx, Table, remote.Filter{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear watch history: %w", err)
	}

	s.cache.Clear(userID)
	return nil
}

// QueueDepth exposes the offline backlog size for observability; the queue
// itself is unbounded.
func (s *Service) QueueDepth() int {
	return s.queue.Depth()
}
