package player

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name      string
		from      State
		event     EventType
		want      State
		persist   bool
		minDelta  float64
	}{
		{"play from idle", StateIdle, EventPlay, StatePlaying, false, 0},
		{"pause persists", StatePlaying, EventPause, StatePaused, true, saveMinDelta},
		{"ended persists", StatePlaying, EventEnded, StateEnded, true, saveMinDelta},
		{"timeupdate keeps state", StatePlaying, EventTimeUpdate, StatePlaying, true, timeUpdateMinDelta},
		{"timeupdate while paused", StatePaused, EventTimeUpdate, StatePaused, true, timeUpdateMinDelta},
		{"seeked never persists", StatePlaying, EventSeeked, StatePlaying, false, 0},
		{"play resumes after pause", StatePaused, EventPlay, StatePlaying, false, 0},
		{"unknown event ignored", StatePlaying, EventType("buffering"), StatePlaying, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, effects := Transition(tc.from, Event{Event: tc.event, CurrentTime: 10})
			assert.Equal(t, tc.want, next)
			assert.Equal(t, tc.persist, effects.Persist)
			if tc.persist {
				assert.Equal(t, tc.minDelta, effects.MinDelta)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	// Unknown duration records a fixed in-progress value
	assert.Equal(t, 50.0, ProgressPercent(1200, 0))
	assert.Equal(t, 50.0, ProgressPercent(1200, -1))

	// Position at or past the end clamps to 95, never 100
	assert.Equal(t, 95.0, ProgressPercent(5700, 5700))
	assert.Equal(t, 95.0, ProgressPercent(9999, 5700))

	// Scenario A: 5400 of 5700 seconds
	assert.InDelta(t, 94.7, ProgressPercent(5400, 5700), 0.05)

	// Ordinary midpoint
	assert.InDelta(t, 50.0, ProgressPercent(2850, 5700), 0.001)
}

// Property: for any position and positive duration the derived progress is
// in [0, 95]; for non-positive duration it is exactly 50.
func TestProgressPercent_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("bounded progress", prop.ForAll(
		func(currentTime, duration float64) bool {
			p := ProgressPercent(currentTime, duration)
			if duration <= 0 {
				return p == unknownDurationProgress
			}
			return p >= 0 && p <= maxTrackedProgress
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(-1e3, 1e6),
	))

	properties.TestingRun(t)
}

func TestParseMessage_OriginFiltering(t *testing.T) {
	payload := []byte(`{"event":"pause","currentTime":120,"duration":3600}`)

	_, ok := ParseMessage("https://vidlink.pro", payload, DefaultAllowedOrigins)
	assert.True(t, ok)

	_, ok = ParseMessage("https://player.vidsrc.xyz", payload, DefaultAllowedOrigins)
	assert.True(t, ok, "subdomains of listed players are allowed")

	_, ok = ParseMessage("https://evil.example.com", payload, DefaultAllowedOrigins)
	assert.False(t, ok, "unknown origins are dropped")
}

func TestParseMessage_MalformedDropped(t *testing.T) {
	origin := "https://vidlink.pro"

	_, ok := ParseMessage(origin, []byte(`{not json`), DefaultAllowedOrigins)
	assert.False(t, ok)

	_, ok = ParseMessage(origin, []byte(`{"currentTime":120}`), DefaultAllowedOrigins)
	assert.False(t, ok, "missing event name is dropped")

	_, ok = ParseMessage(origin, []byte(`{"event":"pause"}`), DefaultAllowedOrigins)
	assert.False(t, ok, "missing currentTime is dropped")
}

func TestParseMessage_WrappedFormat(t *testing.T) {
	payload := []byte(`{"type":"PLAYER_EVENT","data":{"event":"timeupdate","currentTime":45.5,"duration":1800}}`)

	ev, ok := ParseMessage("https://vidking.net", payload, DefaultAllowedOrigins)
	assert.True(t, ok)
	assert.Equal(t, EventTimeUpdate, ev.Event)
	assert.Equal(t, 45.5, ev.CurrentTime)
	assert.Equal(t, 1800.0, ev.Duration)
}
