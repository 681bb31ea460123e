package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/middleware"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	authService    service.AuthService
	logger         *slog.Logger
}

func NewCommentHandler(commentService service.CommentService, authService service.AuthService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
		logger:         logger,
	}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/videos/:video_id/comments", middleware.RequireAuth(h.authService), h.Create)
}

// Create handles POST /api/videos/:video_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		return
	}

	var in dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"errors":  gin.H{"content": []string{"Comment content is required"}},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.commentService.AddComment(ctx, c.GetString("userID"), videoID, in.Content)
	if err != nil {
		if fieldErrs, ok := service.AsFieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Validation failed",
				"errors":  fieldErrs,
			})
			return
		}
		if errors.Is(err, service.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		h.logger.Error("failed to add comment", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}
