package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"streame/internal/kv"
	"streame/internal/shared"
)

const (
	localCacheKey = "watchHistory_cache"
	// localCacheMax caps the per-user mirror at the most recent entries.
	localCacheMax = 50
)

// LocalCache is the per-user durable mirror of watch history. It is a read
// fallback only: reads consult it when the remote store fails, and a
// successful remote read overwrites it wholesale.
type LocalCache struct {
	store  kv.Store
	logger *slog.Logger
}

func NewLocalCache(store kv.Store, logger *slog.Logger) *LocalCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalCache{store: store, logger: logger}
}

func (c *LocalCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", localCacheKey, userID)
}

// List returns the mirrored records for userID, most recent first. Corrupt
// or missing state reads as empty.
func (c *LocalCache) List(userID string) []Record {
	raw, ok := c.store.GetItem(c.key(userID))
	if !ok {
		return []Record{}
	}
	var items []Record
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Record{}
	}
	return items
}

// Update upserts one record into the mirror: any entry with the same
// identity key is replaced, the list is re-sorted by last_watched descending
// and truncated to the most recent entries.
func (c *LocalCache) Update(userID string, rec Record) {
	items := c.List(userID)

	replaced := false
	for i := range items {
		if items[i].SameKey(rec.MediaRef) {
			items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append([]Record{rec}, items...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastWatched.After(items[j].LastWatched)
	})
	if len(items) > localCacheMax {
		items = items[:localCacheMax]
	}

	c.persist(userID, items)
}

// ReplaceAll overwrites the whole mirror with a fresh remote result.
func (c *LocalCache) ReplaceAll(userID string, items []Record) {
	c.persist(userID, items)
}

// RemoveTitle drops every record for (tmdbID, mediaType) regardless of
// season/episode, so a removed show disappears from continue watching
// entirely.
func (c *LocalCache) RemoveTitle(userID string, tmdbID int64, mediaType shared.MediaType) {
	ref := shared.MediaRef{TMDBID: tmdbID, Type: mediaType}
	items := c.List(userID)
	kept := items[:0]
	for _, it := range items {
		if !it.SameTitle(ref) {
			kept = append(kept, it)
		}
	}
	c.persist(userID, kept)
}

// Clear removes the mirror for userID.
func (c *LocalCache) Clear(userID string) {
	c.store.RemoveItem(c.key(userID))
}

func (c *LocalCache) persist(userID string, items []Record) {
	payload, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("local_cache_encode_failed", "user_id", userID, "error", err)
		return
	}
	c.store.SetItem(c.key(userID), string(payload))
}
