// Package httpapi assembles the gin router for the API server.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"streame/internal/httpapi/handler"
	"streame/internal/httpapi/middleware"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Auth           handler.AuthService
	Validator      middleware.TokenValidator
	History        handler.HistoryService
	Progress       handler.ProgressService
	Watchlist      handler.WatchlistService
	Catalog        *handler.CatalogHandler
	AccessTokenTTL time.Duration
	CORSOrigins    []string
	PlayerOrigins  []string
}

// NewRouter builds the full API route tree.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	requireAuth := middleware.AuthMiddleware(deps.Validator)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.AccessTokenTTL)
	authHandler.RegisterRoutes(api.Group("/auth"))
	api.GET("/auth/me", requireAuth, authHandler.Me)

	deps.Catalog.RegisterRoutes(api.Group("/catalog"))

	handler.NewServersHandler(deps.PlayerOrigins).RegisterRoutes(api.Group("/servers"))

	historyHandler := handler.NewHistoryHandler(deps.History)
	historyHandler.RegisterRoutes(api.Group("/history", requireAuth))
	// Unload beacon. Same auth, separate path so the player can hardcode it.
	api.POST("/save-history", requireAuth, historyHandler.SaveBeacon)

	handler.NewProgressHandler(deps.Progress).RegisterRoutes(api.Group("/progress", requireAuth))
	handler.NewWatchlistHandler(deps.Watchlist).RegisterRoutes(api.Group("/watchlist", requireAuth))

	return r
}
