package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"streame/database"
	"streame/internal/auth"
	"streame/internal/cache"
	"streame/internal/config"
	"streame/internal/history"
	"streame/internal/httpapi"
	"streame/internal/httpapi/handler"
	"streame/internal/kv"
	"streame/internal/progress"
	"streame/internal/remote"
	"streame/internal/tmdb"
	"streame/internal/usermedia"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Durable local store: the watch-history mirror and the offline queue
	// live here, so reads and queued writes survive restarts.
	local, err := kv.OpenBadger(cfg.DataPath, logger)
	if err != nil {
		log.Fatalf("could not open local store: %v", err)
	}
	defer local.Close()

	// Remote store. Without a DATABASE_URL the server still runs: every
	// write lands in the offline queue and every read serves the local
	// mirror.
	var store remote.Store
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectDB(cfg, logger)
		if err != nil {
			log.Fatalf("could not connect to database: %v", err)
		}
		store = remote.NewGormStore(db)
	} else {
		logger.Warn("remote_store_not_configured",
			"detail", "running offline-only against the local store",
		)
		store = remote.NewDisabled()
	}

	// Optional shared response cache for multi-instance deployments.
	var sharedCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		sharedCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, "streame")
		if err != nil {
			logger.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer sharedCache.Close()
		}
	}

	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey)
	if cfg.TMDBAPIURL != "" {
		tmdbClient.SetBaseURL(cfg.TMDBAPIURL)
	}
	tmdbClient.SetCacheTTL(time.Duration(cfg.CacheTTL) * time.Second)
	tmdbClient.SetSharedCache(sharedCache)

	authService := auth.NewService(store, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	historyService := history.NewService(store,
		history.NewLocalCache(local, logger),
		history.NewQueue(local, logger),
		logger)
	progressService := progress.NewService(store, logger)
	mediaService := usermedia.NewService(store, logger)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:           authService,
		Validator:      authService,
		History:        historyService,
		Progress:       progressService,
		Watchlist:      mediaService,
		Catalog:        handler.NewCatalogHandler(tmdbClient),
		AccessTokenTTL: cfg.AccessTokenTTL,
		CORSOrigins:    cfg.CORSOrigins,
		PlayerOrigins:  cfg.PlayerAllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("api_server_listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
