package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"streame/internal/player"
	"streame/internal/playerservers"
	"streame/internal/shared"
)

// ServersHandler exposes the embed server registry, embed URL construction
// and the origin allow-list the player applies to telemetry messages.
type ServersHandler struct {
	allowedOrigins []string
}

func NewServersHandler(allowedOrigins []string) *ServersHandler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = player.DefaultAllowedOrigins
	}
	return &ServersHandler{allowedOrigins: allowedOrigins}
}

// RegisterRoutes registers the player server routes
func (h *ServersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:key/embed", h.Embed)
}

func (h *ServersHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"servers":         playerservers.Options,
		"default":         playerservers.Default,
		"allowed_origins": h.allowedOrigins,
	})
}

func (h *ServersHandler) Embed(c *gin.Context) {
	key := playerservers.Key(c.Param("key"))

	tmdbID, err := strconv.ParseInt(c.Query("tmdb_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb_id"})
		return
	}
	mediaType := shared.MediaType(c.Query("type"))
	if !mediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be movie or tv"})
		return
	}
	season, _ := strconv.Atoi(c.Query("season"))
	episode, _ := strconv.Atoi(c.Query("episode"))

	url, err := playerservers.EmbedURL(key, tmdbID, mediaType, season, episode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       url,
		"resumable": playerservers.IsResumable(key),
	})
}
