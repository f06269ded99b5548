package history

import (
	"encoding/json"
	"log/slog"

	"streame/internal/kv"
	"streame/internal/shared"
)

const offlineQueueKey = "watchHistory_offline_queue"

// Queue is the durable record of writes the remote store has not yet
// acknowledged. It is a single global list (not per-user) holding at most
// one pending write per identity key; a newer local write for the same key
// overwrites the queued one in place.
type Queue struct {
	store  kv.Store
	logger *slog.Logger
}

func NewQueue(store kv.Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{store: store, logger: logger}
}

// Snapshot returns the queued writes in order. Corrupt or missing state
// reads as empty.
func (q *Queue) Snapshot() []Record {
	raw, ok := q.store.GetItem(offlineQueueKey)
	if !ok {
		return []Record{}
	}
	var items []Record
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Record{}
	}
	return items
}

// Add enqueues rec, replacing any pending write with the same identity key
// so the queue always holds the most recent attempted value.
func (q *Queue) Add(rec Record) {
	items := q.Snapshot()

	replaced := false
	for i := range items {
		if items[i].UserID == rec.UserID && items[i].SameKey(rec.MediaRef) {
			items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, rec)
	}

	q.persist(items)
}

// Rewrite replaces the queue contents, keeping the given entries in order.
// The sync pass uses this to retain only the writes that did not reach the
// remote store.
func (q *Queue) Rewrite(items []Record) {
	q.persist(items)
}

// RemoveTitle drops every queued write for (tmdbID, mediaType) regardless
// of season/episode. Same rule as the local cache: removal purges the whole
// title.
func (q *Queue) RemoveTitle(tmdbID int64, mediaType shared.MediaType) {
	ref := shared.MediaRef{TMDBID: tmdbID, Type: mediaType}
	items := q.Snapshot()
	kept := items[:0]
	for _, it := range items {
		if !it.SameTitle(ref) {
			kept = append(kept, it)
		}
	}
	q.persist(kept)
}

// Depth reports how many writes are waiting for the remote store.
func (q *Queue) Depth() int {
	return len(q.Snapshot())
}

func (q *Queue) persist(items []Record) {
	payload, err := json.Marshal(items)
	if err != nil {
		q.logger.Error("offline_queue_encode_failed", "error", err)
		return
	}
	q.store.SetItem(offlineQueueKey, string(payload))
}
