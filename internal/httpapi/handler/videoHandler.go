package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"vidshare/internal/config"
	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/middleware"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService service.VideoService
	authService  service.AuthService
	cfg          *config.Config
	logger       *slog.Logger
}

func NewVideoHandler(videoService service.VideoService, authService service.AuthService, cfg *config.Config, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		authService:  authService,
		cfg:          cfg,
		logger:       logger,
	}
}

// RegisterRoutes registers the video listing, detail, upload and my-videos routes
func (h *VideoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/videos", h.List)
	rg.GET("/videos/:video_id", middleware.OptionalAuth(h.authService), h.Detail)
	rg.POST("/upload", middleware.RequireAuth(h.authService), h.Upload)
	rg.GET("/my-videos", middleware.RequireAuth(h.authService), h.MyVideos)
}

// List handles GET /api/videos?query=&genre=&page=&per_page=
func (h *VideoHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	params := service.ListParams{
		Query:    c.Query("query"),
		Genre:    c.Query("genre"),
		Page:     1,
		PageSize: h.cfg.APIPageSize,
	}

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			params.Page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil && parsed > 0 && parsed <= 100 {
			params.PageSize = parsed
		}
	}

	result, err := h.videoService.ListVideos(ctx, params)
	if err != nil {
		h.logger.Error("failed to list videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"videos":     result.Videos,
		"pagination": result.Pagination,
	})
}

// Detail handles GET /api/videos/:video_id
func (h *VideoHandler) Detail(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := c.GetString("userID") // empty for anonymous callers

	detail, err := h.videoService.GetDetail(ctx, videoID, userID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		h.logger.Error("failed to fetch video detail", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch video details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "video": detail})
}

// Upload handles POST /api/upload (multipart, creators only)
func (h *VideoHandler) Upload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	user, err := h.authService.GetUser(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	var in dto.UploadVideoDTO
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
		return
	}

	source := dto.ContentSource{ExternalURL: in.ExternalURL}
	if file, err := c.FormFile("video_file"); err == nil {
		source.File = file
	}

	video, err := h.videoService.CreateVideo(ctx, user, in, source)
	if err != nil {
		if fieldErrs, ok := service.AsFieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Validation failed",
				"errors":  fieldErrs,
			})
			return
		}
		if errors.Is(err, service.ErrNotCreator) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only creators can upload videos"})
			return
		}
		h.logger.Error("failed to create video", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload failed"})
		return
	}

	// Persist the file bytes once the row is committed. Storage is a
	// delegated boundary; a failure here is an internal error, not a
	// validation problem.
	if source.HasFile() {
		dst := filepath.Join(h.cfg.VideoDataPath, *video.VideoFile)
		if err := c.SaveUploadedFile(source.File, dst); err != nil {
			h.logger.Error("failed to store uploaded file", "video_id", video.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Video uploaded successfully",
		"video_id": video.ID,
	})
}

// MyVideos handles GET /api/my-videos?page= for creators
func (h *VideoHandler) MyVideos(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.GetUser(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := h.videoService.MyVideos(ctx, user, page, h.cfg.MyVideosPageSize)
	if err != nil {
		if errors.Is(err, service.ErrNotCreator) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
			return
		}
		h.logger.Error("failed to list own videos", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"videos":     result.Videos,
		"pagination": result.Pagination,
	})
}
