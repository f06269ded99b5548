// Package player consumes playback telemetry from embedded third-party
// video players and turns it into watch-history writes. The players are
// untrusted cross-origin iframes: telemetry flows one way (in), no commands
// ever go out, and anything malformed or from an unknown origin is dropped
// without comment.
package player

import (
	"encoding/json"
	"strings"
)

// EventType is one of the playback telemetry events a player emits.
type EventType string

const (
	EventPlay       EventType = "play"
	EventPause      EventType = "pause"
	EventSeeked     EventType = "seeked"
	EventEnded      EventType = "ended"
	EventTimeUpdate EventType = "timeupdate"
)

// Event is one accepted telemetry message.
type Event struct {
	Event       EventType `json:"event"`
	CurrentTime float64   `json:"currentTime"`
	Duration    float64   `json:"duration"`
}

// DefaultAllowedOrigins lists the known player domains. Messages from any
// other origin are dropped.
var DefaultAllowedOrigins = []string{
	"vidlink.pro",
	"vidking.net",
	"vidsrc.xyz",
	"vidsrc.to",
	"vidsrc.me",
	"vidsrc.cc",
	"vidsrc.icu",
}

// OriginAllowed reports whether origin matches the allow-list. Matching is
// substring-based so subdomains of a listed player domain pass.
func OriginAllowed(origin string, allowed []string) bool {
	for _, host := range allowed {
		if strings.Contains(origin, host) {
			return true
		}
	}
	return false
}

// envelope covers both raw event payloads and the wrapped
// {"type":"PLAYER_EVENT","data":{...}} format some players use.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`

	Event       string   `json:"event"`
	CurrentTime *float64 `json:"currentTime"`
	Duration    float64  `json:"duration"`
}

// ParseMessage validates origin and decodes payload into an Event. The
// boolean is false for anything that should be ignored: unknown origin,
// unparseable JSON, missing event name or current time. Dropped messages are
// not errors; noisy players are expected.
func ParseMessage(origin string, payload []byte, allowed []string) (Event, bool) {
	if !OriginAllowed(origin, allowed) {
		return Event{}, false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, false
	}
	if env.Type == "PLAYER_EVENT" && len(env.Data) > 0 {
		env = envelope{}
		if err := json.Unmarshal(payload, &struct {
			Data *envelope `json:"data"`
		}{Data: &env}); err != nil {
			return Event{}, false
		}
	}

	if env.Event == "" || env.CurrentTime == nil {
		return Event{}, false
	}

	return Event{
		Event:       EventType(env.Event),
		CurrentTime: *env.CurrentTime,
		Duration:    env.Duration,
	}, true
}
