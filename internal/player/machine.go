package player

// State is the bounded playback state derived from telemetry.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Persistence throttles. Event-driven saves (pause/ended) use the general
// window; periodic timeupdate saves are rate-limited more conservatively.
const (
	saveMinDelta       = 5.0
	timeUpdateMinDelta = 30.0
)

// Effects describes what a transition asks the caller to do. Position and
// duration tracking always happens; persistence only when Persist is set and
// the position moved at least MinDelta seconds since the last save.
type Effects struct {
	Persist  bool
	MinDelta float64
}

// Transition is the pure state-transition function. It has no side effects
// and no dependency on transport, so it is testable without a real player.
func Transition(s State, e Event) (State, Effects) {
	switch e.Event {
	case EventPlay:
		return StatePlaying, Effects{}
	case EventPause:
		return StatePaused, Effects{Persist: true, MinDelta: saveMinDelta}
	case EventEnded:
		return StateEnded, Effects{Persist: true, MinDelta: saveMinDelta}
	case EventTimeUpdate:
		return s, Effects{Persist: true, MinDelta: timeUpdateMinDelta}
	case EventSeeked:
		// Position update only; seeking never persists by itself.
		return s, Effects{}
	default:
		return s, Effects{}
	}
}

// maxTrackedProgress keeps position-derived records under 100% so they stay
// in continue watching.
const maxTrackedProgress = 95

// unknownDurationProgress is recorded when a player never reports duration;
// the record still counts as in progress rather than being discarded.
const unknownDurationProgress = 50

// ProgressPercent derives the persisted progress value from a playback
// position.
func ProgressPercent(currentTime, duration float64) float64 {
	if duration <= 0 {
		return unknownDurationProgress
	}
	p := currentTime / duration * 100
	if p > maxTrackedProgress {
		return maxTrackedProgress
	}
	if p < 0 {
		return 0
	}
	return p
}
