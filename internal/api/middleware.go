package api

import (
	"alcyxob/runrep/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid Bearer token when authentication is enabled.
// With no passcode configured every request passes.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		if err := authService.ValidateToken(parts[1]); err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Next()
	}
}

// RequireLoaded answers 503 until the app document has been read from storage,
// so nothing is served from or built on the default value.
func RequireLoaded(appState service.AppStateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, loading := appState.State(); loading {
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusServiceUnavailable, "State is still loading")
			return
		}
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
