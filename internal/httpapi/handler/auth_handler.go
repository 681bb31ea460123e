package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vidshare/internal/config"
	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/middleware"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
	logger      *slog.Logger
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

// RegisterRoutes registers the credential endpoints. They sit behind a
// per-IP rate limiter, the rest of the API does not.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	limited := rg.Group("", middleware.RateLimit(h.cfg.AuthRateLimit, h.cfg.AuthRateBurst))
	limited.POST("/auth", h.Auth)
	limited.POST("/register", h.Register)
	rg.GET("/user-status", middleware.OptionalAuth(h.authService), h.UserStatus)
}

// Auth handles POST /api/auth, dispatching on the "action" field.
func (h *AuthHandler) Auth(c *gin.Context) {
	var in dto.AuthRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid action"})
		return
	}

	switch in.Action {
	case "login":
		h.login(c, in)
	case "logout":
		// Tokens are stateless; the client discards its copy.
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid action"})
	}
}

func (h *AuthHandler) login(c *gin.Context, in dto.AuthRequest) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, user, err := h.authService.Login(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid username or password"})
			return
		}
		h.logger.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    dto.FromModelToUserPayload(user),
	})
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in dto.RegisterRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.Register(ctx, in)
	if err != nil {
		if fieldErrs, ok := service.AsFieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Validation failed",
				"errors":  fieldErrs,
			})
			return
		}
		h.logger.Error("registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    dto.FromModelToUserPayload(user),
	})
}

// UserStatus handles GET /api/user-status. Anonymous callers get
// authenticated:false rather than a 401.
func (h *AuthHandler) UserStatus(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false, "user": nil})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		// Token is valid but the account is gone, treat as anonymous.
		c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false, "user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user":          dto.FromModelToUserPayload(user),
	})
}
