package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vidshare/database"
	"vidshare/internal/config"
	"vidshare/internal/httpapi/handler"
	"vidshare/internal/httpapi/middleware"
	"vidshare/internal/httpapi/models"
	"vidshare/internal/httpapi/repository"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	gdb, err := database.OpenGorm(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Video{}, &models.Rating{}, &models.Comment{}); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	pool, err := database.ConnectPool(ctx, cfg, logger)
	if err != nil {
		logger.Error("pgx pool connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is an optimization, not a dependency. Run without it if down.
	rdb, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, admin stats will not be cached", "error", err)
		rdb = nil
	}

	// Repositories
	userRepo := repository.NewUserRepository(gdb)
	videoRepo := repository.NewVideoRepo(gdb)
	commentRepo := repository.NewCommentRepository(gdb)
	ratingRepo := repository.NewRatingRepository(gdb, videoRepo)
	statsRepo := repository.NewStatsRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	videoService := service.NewVideoService(videoRepo, commentRepo, ratingRepo, cfg)
	ratingService := service.NewRatingService(ratingRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	statsService := service.NewStatsService(statsRepo, rdb, cfg.CacheTTL, logger)

	// Handlers
	videoHandler := handler.NewVideoHandler(videoService, authService, cfg, logger)
	ratingHandler := handler.NewRatingHandler(ratingService, authService, logger)
	commentHandler := handler.NewCommentHandler(commentService, authService, logger)
	authHandler := handler.NewAuthHandler(authService, cfg, logger)
	statsHandler := handler.NewStatsHandler(statsService, authService, logger)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))

	api := r.Group("/api")
	videoHandler.RegisterRoutes(api)
	ratingHandler.RegisterRoutes(api)
	commentHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api)
	statsHandler.RegisterRoutes(api)

	// Uploaded files are served straight off disk under the media prefix.
	r.Static(cfg.MediaURLPrefix, cfg.VideoDataPath)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting HTTP server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
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
