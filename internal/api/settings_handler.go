package api

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves user preferences.
type SettingsHandler struct {
	themeService service.ThemeService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(themeService service.ThemeService) *SettingsHandler {
	return &SettingsHandler{themeService: themeService}
}

type ThemeRequest struct {
	Theme domain.ThemeMode `json:"theme" binding:"required"`
}

type ThemeResponse struct {
	Theme domain.ThemeMode `json:"theme"`
}

// GetTheme godoc
// @Summary Get the colour scheme preference
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ThemeResponse
// @Router /settings/theme [get]
func (h *SettingsHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, ThemeResponse{Theme: h.themeService.Theme()})
}

// PutTheme godoc
// @Summary Set the colour scheme preference
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param theme body ThemeRequest true "light, dark or system"
// @Success 200 {object} ThemeResponse
// @Failure 400 {object} gin.H "Invalid theme"
// @Router /settings/theme [put]
func (h *SettingsHandler) PutTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.themeService.SetTheme(c.Request.Context(), req.Theme); err != nil {
		if errors.Is(err, service.ErrInvalidTheme) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save theme.")
		}
		return
	}
	c.JSON(http.StatusOK, ThemeResponse{Theme: h.themeService.Theme()})
}
