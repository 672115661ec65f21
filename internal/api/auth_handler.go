package api

import (
	"alcyxob/runrep/internal/service"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// --- Handler Methods ---

// Login godoc
// @Summary Exchange the passcode for a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Passcode"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Wrong passcode"
// @Failure 404 {object} gin.H "Authentication not enabled"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Passcode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthDisabled):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		default:
			log.Printf("ERROR: Login failed: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Login failed.")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Status godoc
// @Summary Report whether the API requires a token
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthStatusResponse
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, AuthStatusResponse{Enabled: h.authService.Enabled()})
}
