package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"vidshare/internal/httpapi/middleware"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
	authService  service.AuthService
	logger       *slog.Logger
}

func NewStatsHandler(statsService service.StatsService, authService service.AuthService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		authService:  authService,
		logger:       logger,
	}
}

func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/stats", middleware.RequireAuth(h.authService), middleware.RequireStaff(), h.Stats)
}

// Stats handles GET /api/admin/stats for staff users.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.statsService.Stats(ctx)
	if err != nil {
		h.logger.Error("failed to collect admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
