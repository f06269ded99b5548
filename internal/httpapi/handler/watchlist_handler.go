package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"streame/internal/httpapi/dto"
	"streame/internal/httpapi/middleware"
	"streame/internal/shared"
	"streame/internal/usermedia"
)

// WatchlistService is the saved-lists service.
type WatchlistService interface {
	Add(ctx context.Context, userID string, item usermedia.Item, list usermedia.ListType) error
	Remove(ctx context.Context, userID string, tmdbID int64, list usermedia.ListType) error
	List(ctx context.Context, userID string, list usermedia.ListType) ([]usermedia.Item, error)
}

type WatchlistHandler struct {
	mediaService WatchlistService
}

func NewWatchlistHandler(mediaService WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{mediaService: mediaService}
}

// RegisterRoutes registers the watchlist routes
func (h *WatchlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.DELETE("/:tmdb_id", h.Remove)
}

func (h *WatchlistHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.mediaService.List(ctx, userID, usermedia.ListWatchlist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"watchlist": items})
}

func (h *WatchlistHandler) Add(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dto.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item := usermedia.Item{
		TMDBID:     req.TMDBID,
		Type:       shared.MediaType(req.Type),
		Title:      req.Title,
		PosterPath: req.PosterPath,
	}
	if err := h.mediaService.Add(ctx, userID, item, usermedia.ListWatchlist); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "added to watchlist"})
}

func (h *WatchlistHandler) Remove(c *gin.Context) {
	userID := middleware.UserID(c)

	var uri struct {
		TMDBID int64 `uri:"tmdb_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.mediaService.Remove(ctx, userID, uri.TMDBID, usermedia.ListWatchlist); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed from watchlist"})
}
