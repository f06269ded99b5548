package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"streame/internal/httpapi/dto"
	"streame/internal/httpapi/middleware"
	"streame/internal/shared"
)

// ProgressService is the show-level resume pointer service.
type ProgressService interface {
	Get(ctx context.Context, userID string, tmdbID int64) (*shared.TVProgress, error)
	Set(ctx context.Context, userID string, tmdbID int64, p shared.TVProgress) error
}

type ProgressHandler struct {
	progressService ProgressService
}

func NewProgressHandler(progressService ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers the progress-pointer routes
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:tmdb_id", h.Get)
	rg.POST("/:tmdb_id", h.Update)
}

func (h *ProgressHandler) Get(c *gin.Context) {
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

	pointer, err := h.progressService.Get(ctx, userID, uri.TMDBID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pointer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress for show"})
		return
	}

	c.JSON(http.StatusOK, pointer)
}

func (h *ProgressHandler) Update(c *gin.Context) {
	userID := middleware.UserID(c)

	var uri struct {
		TMDBID int64 `uri:"tmdb_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.progressService.Set(ctx, userID, uri.TMDBID, shared.TVProgress{
		Season:  req.Season,
		Episode: req.Episode,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}
