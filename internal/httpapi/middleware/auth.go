package middleware

import (
	"net/http"
	"strings"

	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// RequireAuth is a Gin middleware for JWT authentication of API requests.
// It checks for the presence and validity of a JWT token in the
// Authorization header and aborts with 401 otherwise.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, authService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present but
// lets anonymous requests through. Public endpoints that personalize their
// payload (the caller's own rating on a detail fetch) use this.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, authService); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireStaff gates the admin surface. Must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("isStaff")
		if !exists || !isStaff.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, authService service.AuthService) (*service.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token (format: "Bearer <token>")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *service.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("userType", claims.UserType)
	c.Set("isStaff", claims.IsStaff)
}
