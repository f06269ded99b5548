// Package playerservers is the registry of third-party embed servers the
// player page can load, plus the embed URL construction for each.
package playerservers

import (
	"fmt"

	"streame/internal/shared"
)

// Key identifies one embed server. Keys are stable because they are stored
// as the user's remembered server preference.
type Key string

// Server is one embeddable player source.
type Server struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
	// Resumable servers accept a start position and emit telemetry events,
	// so watch progress can be tracked and restored for them.
	Resumable bool `json:"resumable"`
}

// Options lists the selectable servers in display order. The resumable ones
// lead because progress tracking only works there.
var Options = []Server{
	{Key: "vidlink", Label: "VidLink", Resumable: true},
	{Key: "vidking", Label: "VidKing", Resumable: true},
	{Key: "vidsrc-xyz", Label: "Vidsrc.xyz", Resumable: true},
	{Key: "vidsrc-to", Label: "Vidsrc.to"},
	{Key: "vidsrc-embed", Label: "Vidsrc-embed.ru"},
	{Key: "2embed", Label: "2Embed.cc"},
	{Key: "vidsrc-icu", Label: "Vidsrc.icu"},
}

var byKey = func() map[Key]Server {
	m := make(map[Key]Server, len(Options))
	for _, s := range Options {
		m[s.Key] = s
	}
	return m
}()

// IsValid reports whether value names a known server.
func IsValid(value string) bool {
	_, ok := byKey[Key(value)]
	return ok
}

// IsResumable reports whether the server supports progress tracking.
func IsResumable(key Key) bool {
	return byKey[key].Resumable
}

// Default is the server preselected for new users.
const Default Key = "vidlink"

// EmbedURL builds the iframe source for a title on the given server.
// Season and episode are required for TV.
func EmbedURL(key Key, tmdbID int64, mediaType shared.MediaType, season, episode int) (string, error) {
	if !IsValid(string(key)) {
		return "", fmt.Errorf("unknown player server %q", key)
	}
	if mediaType == shared.MediaTypeTV && (season < 1 || episode < 1) {
		return "", fmt.Errorf("tv embed requires season and episode")
	}

	switch key {
	case "vidlink":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://vidlink.pro/movie/%d", tmdbID), nil
		}
		return fmt.Sprintf("https://vidlink.pro/tv/%d/%d/%d", tmdbID, season, episode), nil
	case "vidking":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://www.vidking.net/embed/movie/%d", tmdbID), nil
		}
		return fmt.Sprintf("https://www.vidking.net/embed/tv/%d/%d/%d", tmdbID, season, episode), nil
	case "vidsrc-xyz":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://vidsrc.xyz/embed/movie?tmdb=%d", tmdbID), nil
		}
		return fmt.Sprintf("https://vidsrc.xyz/embed/tv?tmdb=%d&season=%d&episode=%d", tmdbID, season, episode), nil
	case "vidsrc-to":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://vidsrc.to/embed/movie/%d", tmdbID), nil
		}
		return fmt.Sprintf("https://vidsrc.to/embed/tv/%d/%d/%d", tmdbID, season, episode), nil
	case "vidsrc-embed":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://vidsrc-embed.ru/embed/movie?tmdb=%d", tmdbID), nil
		}
		return fmt.Sprintf("https://vidsrc-embed.ru/embed/tv?tmdb=%d&season=%d&episode=%d", tmdbID, season, episode), nil
	case "2embed":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://www.2embed.cc/embed/%d", tmdbID), nil
		}
		return fmt.Sprintf("https://www.2embed.cc/embedtv/%d&s=%d&e=%d", tmdbID, season, episode), nil
	case "vidsrc-icu":
		if mediaType == shared.MediaTypeMovie {
			return fmt.Sprintf("https://vidsrc.icu/embed/movie/%d", tmdbID), nil
		}
		return fmt.Sprintf("https://vidsrc.icu/embed/tv/%d/%d/%d", tmdbID, season, episode), nil
	default:
		return "", fmt.Errorf("unknown player server %q", key)
	}
}
