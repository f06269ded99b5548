// Package tmdb is the catalog client for The Movie Database API. All calls
// are plain request/response; list responses are memoized through a TTL
// cache so carousels do not hammer the upstream on every page view.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"streame/internal/cache"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"
	defaultTimeout = 10 * time.Second
)

// APIError is an error body returned by the TMDB API.
type APIError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error (code %d): %s", e.StatusCode, e.StatusMessage)
}

// NotFound reports whether the error means the requested title does not
// exist. TMDB signals this with its own code 34 in the body; a bare HTTP
// 404 without a parsable body carries the HTTP status instead.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 34 || e.StatusCode == http.StatusNotFound
}

// Client handles all interactions with the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache[[]byte]
	shared     *cache.RedisCache
	cacheTTL   time.Duration
}

// NewClient creates a TMDB client. Requests are rate-limited to stay under
// the upstream's throttling threshold.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(10), 10),
		cache:    cache.New[[]byte](),
		cacheTTL: cache.DefaultTTL,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetCacheTTL overrides how long responses are memoized.
func (c *Client) SetCacheTTL(ttl time.Duration) {
	c.cacheTTL = ttl
}

// SetSharedCache plugs in a cross-process response cache, consulted between
// the in-process cache and the network. A nil cache is a no-op.
func (c *Client) SetSharedCache(shared *cache.RedisCache) {
	c.shared = shared
}

// get fetches path with params, served from the response cache when fresh.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	key := path + "?" + params.Encode()

	return cache.Fetch(c.cache, key, func() ([]byte, error) {
		var body []byte
		if found, _ := c.shared.Get(ctx, key, &body); found {
			return body, nil
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		params.Set("api_key", c.apiKey)
		endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tmdb request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read tmdb response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			apiErr := &APIError{StatusCode: resp.StatusCode, StatusMessage: resp.Status}
			// The body usually carries a structured error; fall back to the
			// HTTP status when it does not parse.
			_ = json.Unmarshal(body, apiErr)
			return nil, apiErr
		}

		_ = c.shared.Set(ctx, key, body, c.cacheTTL)
		return body, nil
	}, c.cacheTTL)
}

func getJSON[T any](ctx context.Context, c *Client, path string, params url.Values) (*T, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb response for %s: %w", path, err)
	}
	return &out, nil
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 1 {
		params.Set("page", fmt.Sprint(page))
	}
	return params
}

// Movies

func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, "/movie/popular", pageParams(page))
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, "/movie/top_rated", pageParams(page))
}

func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, "/movie/now_playing", pageParams(page))
}

func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, "/movie/upcoming", pageParams(page))
}

func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	return getJSON[MovieDetails](ctx, c, fmt.Sprintf("/movie/%d", movieID), nil)
}

// TV shows

func (c *Client) PopularTVShows(ctx context.Context, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, "/tv/popular", pageParams(page))
}

func (c *Client) TopRatedTVShows(ctx context.Context, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, "/tv/top_rated", pageParams(page))
}

func (c *Client) OnTheAirTVShows(ctx context.Context, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, "/tv/on_the_air", pageParams(page))
}

func (c *Client) AiringTodayTVShows(ctx context.Context, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, "/tv/airing_today", pageParams(page))
}

func (c *Client) TVShowDetails(ctx context.Context, tvID int64) (*TVShowDetails, error) {
	return getJSON[TVShowDetails](ctx, c, fmt.Sprintf("/tv/%d", tvID), nil)
}

// Search

func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page[MediaItem], error) {
	params := pageParams(page)
	params.Set("query", query)
	return getJSON[Page[MediaItem]](ctx, c, "/search/multi", params)
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	params := pageParams(page)
	params.Set("query", query)
	return getJSON[Page[Movie]](ctx, c, "/search/movie", params)
}

func (c *Client) SearchTVShows(ctx context.Context, query string, page int) (*Page[TVShow], error) {
	params := pageParams(page)
	params.Set("query", query)
	return getJSON[Page[TVShow]](ctx, c, "/search/tv", params)
}

// Trending. timeWindow is "day" or "week".

func (c *Client) TrendingMovies(ctx context.Context, timeWindow string) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, "/trending/movie/"+timeWindow, nil)
}

func (c *Client) TrendingTVShows(ctx context.Context, timeWindow string) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, "/trending/tv/"+timeWindow, nil)
}

func (c *Client) TrendingAll(ctx context.Context, timeWindow string) (*Page[MediaItem], error) {
	return getJSON[Page[MediaItem]](ctx, c, "/trending/all/"+timeWindow, nil)
}

// Credits, videos, related titles

func (c *Client) MovieCredits(ctx context.Context, movieID int64) (*Credits, error) {
	return getJSON[Credits](ctx, c, fmt.Sprintf("/movie/%d/credits", movieID), nil)
}

func (c *Client) TVShowCredits(ctx context.Context, tvID int64) (*Credits, error) {
	return getJSON[Credits](ctx, c, fmt.Sprintf("/tv/%d/credits", tvID), nil)
}

func (c *Client) MovieVideos(ctx context.Context, movieID int64) (*Videos, error) {
	return getJSON[Videos](ctx, c, fmt.Sprintf("/movie/%d/videos", movieID), nil)
}

func (c *Client) TVShowVideos(ctx context.Context, tvID int64) (*Videos, error) {
	return getJSON[Videos](ctx, c, fmt.Sprintf("/tv/%d/videos", tvID), nil)
}

func (c *Client) SimilarMovies(ctx context.Context, movieID int64, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, fmt.Sprintf("/movie/%d/similar", movieID), pageParams(page))
}

func (c *Client) SimilarTVShows(ctx context.Context, tvID int64, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, fmt.Sprintf("/tv/%d/similar", tvID), pageParams(page))
}

func (c *Client) MovieRecommendations(ctx context.Context, movieID int64, page int) (*Page[Movie], error) {
	return getJSON[Page[Movie]](ctx, c, fmt.Sprintf("/movie/%d/recommendations", movieID), pageParams(page))
}

func (c *Client) TVShowRecommendations(ctx context.Context, tvID int64, page int) (*Page[TVShow], error) {
	return getJSON[Page[TVShow]](ctx, c, fmt.Sprintf("/tv/%d/recommendations", tvID), pageParams(page))
}
