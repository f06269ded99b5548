package player

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streame/internal/history"
	"streame/internal/shared"
)

// recordingWriter captures every Add call.
type recordingWriter struct {
	mu      sync.Mutex
	records []history.Record
}

func (w *recordingWriter) Add(ctx context.Context, userID string, rec history.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec.UserID = userID
	w.records = append(w.records, rec)
	return nil
}

func (w *recordingWriter) all() []history.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]history.Record, len(w.records))
	copy(out, w.records)
	return out
}

func testMedia() Media {
	return Media{
		TMDBID: 550,
		Type:   shared.MediaTypeMovie,
		Title:  "Fight Club",
	}
}

func TestReconciler_ScenarioA_PausePersists(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventPlay, CurrentTime: 0, Duration: 5700})
	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 5400, Duration: 5700})

	records := w.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "user1", rec.UserID)
	assert.Equal(t, int64(550), rec.TMDBID)
	assert.InDelta(t, 94.7, rec.Progress, 0.05)
	assert.Equal(t, 5400, *rec.LastPosition)
	assert.Equal(t, 5700, *rec.Duration)
	assert.False(t, r.IsPlaying())
}

func TestReconciler_ScenarioD_TimeUpdateThrottle(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventPlay, CurrentTime: 0, Duration: 5700})

	// timeupdate every 2 seconds of playback: saves happen only when the
	// delta since the last saved position reaches 30 seconds
	for pos := 2.0; pos <= 120; pos += 2 {
		r.Apply(ctx, Event{Event: EventTimeUpdate, CurrentTime: pos, Duration: 5700})
	}

	records := w.all()
	require.Len(t, records, 4, "expected saves at 30, 60, 90 and 120 seconds")
	assert.Equal(t, 30, *records[0].LastPosition)
	assert.Equal(t, 60, *records[1].LastPosition)
	assert.Equal(t, 90, *records[2].LastPosition)
	assert.Equal(t, 120, *records[3].LastPosition)
}

func TestReconciler_PauseThrottledWithinFiveSeconds(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 100, Duration: 5700})
	require.Len(t, w.all(), 1)

	// A second pause 3 seconds later stays inside the 5-second window
	r.Apply(ctx, Event{Event: EventPlay, CurrentTime: 100, Duration: 5700})
	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 103, Duration: 5700})
	assert.Len(t, w.all(), 1, "pause within the throttle window must not persist")

	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 108, Duration: 5700})
	assert.Len(t, w.all(), 2)
}

func TestReconciler_SeekedUpdatesPositionWithoutPersisting(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventSeeked, CurrentTime: 2000, Duration: 5700})

	assert.Empty(t, w.all())
	cur, dur := r.Position()
	assert.Equal(t, 2000.0, cur)
	assert.Equal(t, 5700.0, dur)
}

func TestReconciler_UnknownDurationFallback(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	// Player never reports duration
	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 1200, Duration: 0})

	records := w.all()
	require.Len(t, records, 1)
	assert.Equal(t, 50.0, records[0].Progress)
	assert.Nil(t, records[0].Duration)
	assert.Equal(t, 1200, *records[0].LastPosition)
}

func TestReconciler_RuntimeUsedUntilPlayerReportsDuration(t *testing.T) {
	w := &recordingWriter{}
	media := testMedia()
	media.Runtime = 5700
	r := NewReconciler(w, "user1", media, nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 2850, Duration: 0})

	records := w.all()
	require.Len(t, records, 1)
	assert.InDelta(t, 50.0, records[0].Progress, 0.001, "runtime stands in for the unreported duration")
	assert.Equal(t, 5700, *records[0].Duration)
}

func TestReconciler_EndedClampsToNinetyFive(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventEnded, CurrentTime: 5700, Duration: 5700})

	records := w.all()
	require.Len(t, records, 1)
	assert.Equal(t, 95.0, records[0].Progress, "position tracking never marks a title fully complete")
}

func TestReconciler_FlushOnTeardown(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	// Nothing happened yet: flush is a no-op
	r.Flush(ctx)
	assert.Empty(t, w.all())

	r.Apply(ctx, Event{Event: EventPlay, CurrentTime: 0, Duration: 5700})
	r.Apply(ctx, Event{Event: EventTimeUpdate, CurrentTime: 12, Duration: 5700})
	assert.Empty(t, w.all(), "12 seconds is under the timeupdate threshold")

	r.Flush(ctx)
	records := w.all()
	require.Len(t, records, 1, "teardown flushes the unsaved position")
	assert.Equal(t, 12, *records[0].LastPosition)
}

func TestReconciler_NoUserNoPersistence(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "", testMedia(), nil)
	ctx := context.Background()

	r.Apply(ctx, Event{Event: EventPause, CurrentTime: 1000, Duration: 5700})
	r.Flush(ctx)

	assert.Empty(t, w.all())
}

func TestReconciler_HandleMessageEndToEnd(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	// Noise from an unknown origin is ignored
	r.HandleMessage(ctx, "https://evil.example.com", []byte(`{"event":"pause","currentTime":500,"duration":5700}`))
	assert.Empty(t, w.all())

	// Real message from an allowed player
	r.HandleMessage(ctx, "https://vidlink.pro", []byte(`{"event":"pause","currentTime":500,"duration":5700}`))
	require.Len(t, w.all(), 1)
}

// beaconRecorder implements BeaconSender.
type beaconRecorder struct {
	sent []history.Record
}

func (b *beaconRecorder) Send(rec history.Record) {
	b.sent = append(b.sent, rec)
}

func TestReconciler_FlushBeacon(t *testing.T) {
	w := &recordingWriter{}
	r := NewReconciler(w, "user1", testMedia(), nil)
	ctx := context.Background()

	sender := &beaconRecorder{}
	r.FlushBeacon(sender)
	assert.Empty(t, sender.sent, "no events yet, nothing to beacon")

	r.Apply(ctx, Event{Event: EventPlay, CurrentTime: 0, Duration: 5700})
	r.Apply(ctx, Event{Event: EventSeeked, CurrentTime: 42, Duration: 5700})

	r.FlushBeacon(sender)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, 42, *sender.sent[0].LastPosition)

}
