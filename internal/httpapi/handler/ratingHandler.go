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

type RatingHandler struct {
	ratingService service.RatingService
	authService   service.AuthService
	logger        *slog.Logger
}

func NewRatingHandler(ratingService service.RatingService, authService service.AuthService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		authService:   authService,
		logger:        logger,
	}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rate/:video_id", middleware.RequireAuth(h.authService), h.Rate)
}

// Rate handles POST /api/rate/:video_id. A second submission by the same
// user replaces the earlier one.
func (h *RatingHandler) Rate(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		return
	}

	var in dto.SubmitRatingDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rating must be between 1 and 5"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.ratingService.SubmitRating(ctx, c.GetString("userID"), videoID, in.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rating must be between 1 and 5"})
		default:
			h.logger.Error("failed to submit rating", "video_id", videoID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to submit rating"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"user_rating":    result.UserRating,
		"average_rating": result.AverageRating,
		"total_ratings":  result.TotalRatings,
	})
}
