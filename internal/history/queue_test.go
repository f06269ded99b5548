package history

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"streame/internal/kv"
	"streame/internal/shared"
)

func TestQueue_AddAndSnapshot(t *testing.T) {
	q := NewQueue(kv.NewMemory(), nil)

	rec := movieRecord(550, 100, 5700)
	rec.UserID = "user1"
	q.Add(rec)

	snapshot := q.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, int64(550), snapshot[0].TMDBID)
	assert.Equal(t, 1, q.Depth())
}

func TestQueue_ReplaceInPlaceKeepsPosition(t *testing.T) {
	q := NewQueue(kv.NewMemory(), nil)

	for i := int64(1); i <= 3; i++ {
		rec := movieRecord(i, 100, 3600)
		rec.UserID = "user1"
		q.Add(rec)
	}

	// Overwriting the middle entry must not move it to the tail
	updated := movieRecord(2, 999, 3600)
	updated.UserID = "user1"
	q.Add(updated)

	snapshot := q.Snapshot()
	assert.Len(t, snapshot, 3)
	assert.Equal(t, int64(2), snapshot[1].TMDBID)
	assert.Equal(t, 999, *snapshot[1].LastPosition)
}

func TestQueue_DistinctUsersDistinctEntries(t *testing.T) {
	q := NewQueue(kv.NewMemory(), nil)

	a := movieRecord(550, 100, 3600)
	a.UserID = "user1"
	b := movieRecord(550, 200, 3600)
	b.UserID = "user2"

	q.Add(a)
	q.Add(b)

	assert.Equal(t, 2, q.Depth(), "same title for different users is two pending writes")
}

func TestQueue_CorruptStateReadsAsEmpty(t *testing.T) {
	store := kv.NewMemory()
	store.SetItem(offlineQueueKey, "[[[")

	q := NewQueue(store, nil)
	assert.Empty(t, q.Snapshot())

	rec := movieRecord(1, 100, 3600)
	rec.UserID = "user1"
	q.Add(rec)
	assert.Equal(t, 1, q.Depth())
}

// Property: after any sequence of enqueues the queue holds at most one entry
// per identity key, and that entry carries the values of the latest write.
func TestQueue_CollapsingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	type write struct {
		tmdbID   int64
		position int
	}

	properties.Property("at most one queued entry per identity key, last write wins", prop.ForAll(
		func(ids []int8, positions []int) bool {
			n := len(ids)
			if len(positions) < n {
				n = len(positions)
			}

			q := NewQueue(kv.NewMemory(), nil)
			latest := make(map[int64]int)
			for i := 0; i < n; i++ {
				w := write{tmdbID: int64(ids[i]%5) + 1, position: positions[i] & 0x7fffffff}
				rec := Record{
					MediaRef:     shared.MediaRef{TMDBID: w.tmdbID, Type: shared.MediaTypeMovie},
					Title:        "Prop Movie",
					UserID:       "user1",
					Progress:     10,
					LastPosition: intPtr(w.position),
					LastWatched:  time.Now().UTC(),
				}
				q.Add(rec)
				latest[w.tmdbID] = w.position
			}

			snapshot := q.Snapshot()
			seen := make(map[int64]bool)
			for _, item := range snapshot {
				if seen[item.TMDBID] {
					return false // duplicate identity key
				}
				seen[item.TMDBID] = true
				if *item.LastPosition != latest[item.TMDBID] {
					return false // stale value survived
				}
			}
			return len(snapshot) == len(latest)
		},
		gen.SliceOf(gen.Int8()),
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}
