package api

import (
	"alcyxob/runrep/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the derived progress views.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetSummary godoc
// @Summary Totals and recent activity
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProgressSummary
// @Router /progress [get]
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.progressService.Summary())
}

// GetStrength godoc
// @Summary Recent strength logs, oldest first
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.StrengthPoint
// @Router /progress/strength [get]
func (h *ProgressHandler) GetStrength(c *gin.Context) {
	c.JSON(http.StatusOK, h.progressService.StrengthSeries())
}

// GetVolume godoc
// @Summary Running distance per training week
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.VolumePoint
// @Router /progress/volume [get]
func (h *ProgressHandler) GetVolume(c *gin.Context) {
	c.JSON(http.StatusOK, h.progressService.RunningVolume())
}

// GetPace godoc
// @Summary Recent running paces, oldest first
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PacePoint
// @Router /progress/pace [get]
func (h *ProgressHandler) GetPace(c *gin.Context) {
	c.JSON(http.StatusOK, h.progressService.PaceTrend())
}

// GetWeek godoc
// @Summary The current week with every plan day and today's completions
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.WeekOverview
// @Router /week [get]
func (h *ProgressHandler) GetWeek(c *gin.Context) {
	c.JSON(http.StatusOK, h.progressService.WeekOverview())
}
