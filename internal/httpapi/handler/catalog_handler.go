package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"streame/internal/tmdb"
)

// CatalogHandler proxies the TMDB catalog so the front end never holds the
// API key. Responses are already memoized inside the client.
type CatalogHandler struct {
	tmdb *tmdb.Client
}

func NewCatalogHandler(client *tmdb.Client) *CatalogHandler {
	return &CatalogHandler{tmdb: client}
}

// RegisterRoutes registers the catalog proxy routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/movies/popular", listEndpoint(h.tmdb.PopularMovies))
	rg.GET("/movies/top_rated", listEndpoint(h.tmdb.TopRatedMovies))
	rg.GET("/movies/now_playing", listEndpoint(h.tmdb.NowPlayingMovies))
	rg.GET("/movies/upcoming", listEndpoint(h.tmdb.UpcomingMovies))
	rg.GET("/movie/:tmdb_id", byIDEndpoint(h.tmdb.MovieDetails))
	rg.GET("/movie/:tmdb_id/credits", byIDEndpoint(h.tmdb.MovieCredits))
	rg.GET("/movie/:tmdb_id/videos", byIDEndpoint(h.tmdb.MovieVideos))
	rg.GET("/movie/:tmdb_id/similar", relatedEndpoint(h.tmdb.SimilarMovies))
	rg.GET("/movie/:tmdb_id/recommendations", relatedEndpoint(h.tmdb.MovieRecommendations))

	rg.GET("/tv/popular", listEndpoint(h.tmdb.PopularTVShows))
	rg.GET("/tv/top_rated", listEndpoint(h.tmdb.TopRatedTVShows))
	rg.GET("/tv/on_the_air", listEndpoint(h.tmdb.OnTheAirTVShows))
	rg.GET("/tv/airing_today", listEndpoint(h.tmdb.AiringTodayTVShows))
	rg.GET("/tv/:tmdb_id", byIDEndpoint(h.tmdb.TVShowDetails))
	rg.GET("/tv/:tmdb_id/credits", byIDEndpoint(h.tmdb.TVShowCredits))
	rg.GET("/tv/:tmdb_id/videos", byIDEndpoint(h.tmdb.TVShowVideos))
	rg.GET("/tv/:tmdb_id/similar", relatedEndpoint(h.tmdb.SimilarTVShows))
	rg.GET("/tv/:tmdb_id/recommendations", relatedEndpoint(h.tmdb.TVShowRecommendations))

	rg.GET("/search", h.Search)
	rg.GET("/trending", h.Trending)
}

// listEndpoint adapts a paginated client call to a gin handler.
func listEndpoint[T any](fetch func(context.Context, int) (*tmdb.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := fetch(ctx, page)
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// byIDEndpoint adapts a per-title client call to a gin handler.
func byIDEndpoint[R any](fetch func(context.Context, int64) (*R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb_id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := fetch(ctx, tmdbID)
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// relatedEndpoint adapts a per-title paginated client call to a gin handler.
func relatedEndpoint[T any](fetch func(context.Context, int64, int) (*tmdb.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb_id"})
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := fetch(ctx, tmdbID, page)
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var result any
	var err error
	switch c.DefaultQuery("type", "multi") {
	case "movie":
		result, err = h.tmdb.SearchMovies(ctx, query, page)
	case "tv":
		result, err = h.tmdb.SearchTVShows(ctx, query, page)
	case "multi":
		result, err = h.tmdb.SearchMulti(ctx, query, page)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be multi, movie or tv"})
		return
	}
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) Trending(c *gin.Context) {
	window := c.DefaultQuery("window", "week")
	if window != "day" && window != "week" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window must be day or week"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var result any
	var err error
	switch c.DefaultQuery("type", "all") {
	case "movie":
		result, err = h.tmdb.TrendingMovies(ctx, window)
	case "tv":
		result, err = h.tmdb.TrendingTVShows(ctx, window)
	case "all":
		result, err = h.tmdb.TrendingAll(ctx, window)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be all, movie or tv"})
		return
	}
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondCatalogError forwards upstream TMDB failures with the upstream
// status where it is meaningful.
func respondCatalogError(c *gin.Context, err error) {
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
