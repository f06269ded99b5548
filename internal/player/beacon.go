package player

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"streame/internal/history"
)

// HTTPBeacon posts the final record to the save-history endpoint without
// waiting for the response. The page may be gone before a round-trip
// completes, so delivery is fire-and-forget and failures are discarded.
type HTTPBeacon struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewHTTPBeacon(url, token string) *HTTPBeacon {
	return &HTTPBeacon{
		URL:   url,
		Token: token,
		Client: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

func (b *HTTPBeacon) Send(rec history.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return
	}

	go func() {
		req, err := http.NewRequest(http.MethodPost, b.URL, bytes.NewReader(payload))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if b.Token != "" {
			req.Header.Set("Authorization", "Bearer "+b.Token)
		}
		resp, err := b.Client.Do(req)
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}
