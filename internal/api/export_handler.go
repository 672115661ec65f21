package api

import (
	"alcyxob/runrep/internal/service"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves backups of the app document.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type DeleteShareRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// Download godoc
// @Summary Download a JSON backup
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 200 {file} file "fitness-tracker-backup-YYYY-MM-DD.json"
// @Router /export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exportService.Export()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export data.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, "application/json", file.Data)
}

// Share godoc
// @Summary Upload a backup and get a download link
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.SharedExport
// @Failure 501 {object} gin.H "Sharing not configured"
// @Failure 502 {object} gin.H "Upload failed"
// @Router /export/share [post]
func (h *ExportHandler) Share(c *gin.Context) {
	shared, err := h.exportService.Share(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shared)
}

// DeleteShare godoc
// @Summary Remove a shared backup
// @Tags Export
// @Accept json
// @Security BearerAuth
// @Param share body DeleteShareRequest true "Object key returned by share"
// @Success 204
// @Failure 400 {object} gin.H "Invalid key"
// @Failure 404 {object} gin.H "Not found"
// @Failure 501 {object} gin.H "Sharing not configured"
// @Router /export/share [delete]
func (h *ExportHandler) DeleteShare(c *gin.Context) {
	var req DeleteShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.exportService.DeleteShared(c.Request.Context(), req.ObjectKey); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSharingDisabled):
		abortWithError(c, http.StatusNotImplemented, err.Error())
	case errors.Is(err, service.ErrInvalidExportKey):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSharedNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		abortWithError(c, http.StatusBadGateway, service.ErrUploadFailed.Error())
	default:
		log.Printf("ERROR: Export request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Export failed.")
	}
}
