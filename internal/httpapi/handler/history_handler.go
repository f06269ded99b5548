package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"streame/internal/history"
	"streame/internal/httpapi/dto"
	"streame/internal/httpapi/middleware"
	"streame/internal/shared"
)

// HistoryService is the slice of the watch-history service the handlers
// need.
type HistoryService interface {
	Add(ctx context.Context, userID string, rec history.Record) error
	List(ctx context.Context, userID string, limit int) ([]history.Record, bool, error)
	Get(ctx context.Context, userID string, ref shared.MediaRef) (*history.Record, error)
	Remove(ctx context.Context, userID string, tmdbID int64, mediaType shared.MediaType) error
	Clear(ctx context.Context, userID string) error
}

type HistoryHandler struct {
	historyService HistoryService
}

func NewHistoryHandler(historyService HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// RegisterRoutes registers the watch-history routes
func (h *HistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Save)
	rg.GET("/:tmdb_id", h.Get)
	rg.DELETE("/:tmdb_id", h.Remove)
	rg.DELETE("", h.Clear)
}

func (h *HistoryHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, fromCache, err := h.historyService.List(ctx, userID, query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history":    records,
		"from_cache": fromCache,
	})
}

func (h *HistoryHandler) Save(c *gin.Context) {
	h.save(c, http.StatusOK)
}

// SaveBeacon is the fire-and-forget unload endpoint. The player posts its
// final position here when the page is torn down; the response body is
// never read by the sender.
func (h *HistoryHandler) SaveBeacon(c *gin.Context) {
	h.save(c, http.StatusNoContent)
}

func (h *HistoryHandler) save(c *gin.Context, okStatus int) {
	userID := middleware.UserID(c)

	var req dto.SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := history.Record{
		MediaRef: shared.MediaRef{
			TMDBID:  req.TMDBID,
			Type:    shared.MediaType(req.Type),
			Season:  req.SeasonNumber,
			Episode: req.EpisodeNumber,
		},
		Title:        req.Title,
		PosterPath:   req.PosterPath,
		Progress:     req.Progress,
		Duration:     req.Duration,
		LastPosition: req.LastPosition,
	}
	if req.LastWatched != nil {
		rec.LastWatched = *req.LastWatched
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.historyService.Add(ctx, userID, rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if okStatus == http.StatusNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(okStatus, gin.H{"message": "history saved"})
}

func (h *HistoryHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	var uri struct {
		TMDBID int64 `uri:"tmdb_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var query struct {
		Type          string `form:"type" binding:"required"`
		SeasonNumber  *int   `form:"season_number"`
		EpisodeNumber *int   `form:"episode_number"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.historyService.Get(ctx, userID, shared.MediaRef{
		TMDBID:  uri.TMDBID,
		Type:    shared.MediaType(query.Type),
		Season:  query.SeasonNumber,
		Episode: query.EpisodeNumber,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no history for title"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *HistoryHandler) Remove(c *gin.Context) {
	userID := middleware.UserID(c)

	var uri struct {
		TMDBID int64 `uri:"tmdb_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaType := shared.MediaType(c.Query("type"))
	if !mediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be movie or tv"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.historyService.Remove(ctx, userID, uri.TMDBID, mediaType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "history removed"})
}

func (h *HistoryHandler) Clear(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.historyService.Clear(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}
