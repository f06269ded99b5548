package player

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"streame/internal/history"
	"streame/internal/shared"
)

// Media identifies what the player is playing, fixed for the lifetime of one
// reconciler (one player page).
type Media struct {
	TMDBID     int64
	Type       shared.MediaType
	Title      string
	PosterPath *string
	Season     *int
	Episode    *int
	// Runtime in seconds, used as the duration until the player reports one.
	Runtime int
}

// HistoryWriter is the slice of the watch-history service the reconciler
// needs.
type HistoryWriter interface {
	Add(ctx context.Context, userID string, rec history.Record) error
}

// BeaconSender delivers one final record without waiting for a response,
// for the page-unload path where a normal request may never complete.
type BeaconSender interface {
	Send(rec history.Record)
}

// Reconciler merges telemetry from an untrusted player into periodically
// persisted watch progress. It tracks position, duration and playing state,
// and throttles history writes so a chatty player cannot amplify them.
type Reconciler struct {
	writer         HistoryWriter
	userID         string
	media          Media
	allowedOrigins []string
	logger         *slog.Logger
	now            func() time.Time

	mu          sync.Mutex
	state       State
	currentTime float64
	duration    float64
	lastSaved   float64
	hasEvent    bool
}

func NewReconciler(writer HistoryWriter, userID string, media Media, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		writer:         writer,
		userID:         userID,
		media:          media,
		allowedOrigins: DefaultAllowedOrigins,
		logger:         logger,
		now:            time.Now,
		state:          StateIdle,
		duration:       float64(media.Runtime),
	}
}

// SetAllowedOrigins overrides the default player allow-list.
func (r *Reconciler) SetAllowedOrigins(origins []string) {
	r.allowedOrigins = origins
}

// HandleMessage filters and decodes one raw player message and feeds it to
// the state machine. Unknown origins and malformed payloads are ignored.
func (r *Reconciler) HandleMessage(ctx context.Context, origin string, payload []byte) {
	ev, ok := ParseMessage(origin, payload, r.allowedOrigins)
	if !ok {
		return
	}
	r.Apply(ctx, ev)
}

// Apply advances the state machine with one accepted event and performs the
// requested side effects.
func (r *Reconciler) Apply(ctx context.Context, ev Event) {
	r.mu.Lock()
	next, effects := Transition(r.state, ev)
	r.state = next
	r.currentTime = ev.CurrentTime
	if ev.Duration > 0 {
		r.duration = ev.Duration
	}
	r.hasEvent = true
	r.mu.Unlock()

	if effects.Persist {
		r.persist(ctx, effects.MinDelta)
	}
}

// persist writes the current position to history unless the position moved
// less than minDelta seconds since the last save.
func (r *Reconciler) persist(ctx context.Context, minDelta float64) {
	if r.userID == "" {
		// No user: nothing to persist.
		return
	}

	r.mu.Lock()
	currentTime, duration := r.currentTime, r.duration
	if math.Abs(currentTime-r.lastSaved) < minDelta {
		r.mu.Unlock()
		return
	}
	rec := r.buildRecord(currentTime, duration)
	r.mu.Unlock()

	if err := r.writer.Add(ctx, r.userID, rec); err != nil {
		r.logger.Error("watch_history_save_failed",
			"tmdb_id", r.media.TMDBID,
			"error", err,
		)
		return
	}

	r.mu.Lock()
	r.lastSaved = currentTime
	r.mu.Unlock()
}

// buildRecord assembles the upsert payload for the current position.
// Callers hold r.mu.
func (r *Reconciler) buildRecord(currentTime, duration float64) history.Record {
	var dur *int
	if duration > 0 {
		d := int(math.Round(duration))
		dur = &d
	}
	pos := int(math.Floor(currentTime))

	return history.Record{
		UserID: r.userID,
		MediaRef: shared.MediaRef{
			TMDBID:  r.media.TMDBID,
			Type:    r.media.Type,
			Season:  r.media.Season,
			Episode: r.media.Episode,
		},
		Title:        r.media.Title,
		PosterPath:   r.media.PosterPath,
		Progress:     ProgressPercent(currentTime, duration),
		Duration:     dur,
		LastPosition: &pos,
		LastWatched:  r.now().UTC(),
	}
}

// Flush performs the best-effort final save on teardown (navigation away).
// It is a no-op until at least one event arrived.
func (r *Reconciler) Flush(ctx context.Context) {
	r.mu.Lock()
	has := r.hasEvent
	r.mu.Unlock()
	if !has {
		return
	}
	r.persist(ctx, saveMinDelta)
}

// FlushBeacon hands the final record to a fire-and-forget sender for the
// page-unload path. It bypasses the throttle: this is the last chance to
// record the position.
func (r *Reconciler) FlushBeacon(sender BeaconSender) {
	if r.userID == "" {
		return
	}
	r.mu.Lock()
	if !r.hasEvent {
		r.mu.Unlock()
		return
	}
	rec := r.buildRecord(r.currentTime, r.duration)
	r.mu.Unlock()

	sender.Send(rec)
}

// IsPlaying reports whether the last transition left the player playing.
func (r *Reconciler) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StatePlaying
}

// Position returns the tracked playback position and duration in seconds.
func (r *Reconciler) Position() (currentTime, duration float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentTime, r.duration
}
