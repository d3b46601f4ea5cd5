package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// systemHandler handles whole-database maintenance.
type systemHandler struct {
	systemService portssvc.SystemSvc
	backupService portssvc.BackupSvc
}

func registerSystemRoutes(rg *gin.RouterGroup, systemService portssvc.SystemSvc, backupService portssvc.BackupSvc) {
	h := &systemHandler{systemService: systemService, backupService: backupService}

	system := rg.Group("/system")
	{
		system.GET("/pending-restore", h.pendingRestore)
		system.POST("/persist", h.persist)
		system.POST("/clear", h.clearAllData)
	}
}

// pendingRestore godoc
// @Summary Check for a staged restore
// @Tags system
// @Produce json
// @Success 200 {object} dto.PendingRestoreResponse
// @Security BearerAuth
// @Router /system/pending-restore [get]
func (h *systemHandler) pendingRestore(c *gin.Context) {
	pending, err := h.backupService.HasPendingRestore(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to check staged restore")
		return
	}
	c.JSON(http.StatusOK, dto.PendingRestoreResponse{Pending: pending})
}

// persist godoc
// @Summary Write the database image now
// @Tags system
// @Success 204 "No Content"
// @Failure 500 {object} map[string]string "Failed to persist database"
// @Security BearerAuth
// @Router /system/persist [post]
func (h *systemHandler) persist(c *gin.Context) {
	if err := h.systemService.Persist(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to persist database")
		return
	}
	c.Status(http.StatusNoContent)
}

// clearAllData godoc
// @Summary Delete all data
// @Description Deletes the whole database, including every bank, and starts over empty
// @Tags system
// @Success 204 "No Content"
// @Failure 500 {object} map[string]string "Failed to clear data"
// @Security BearerAuth
// @Router /system/clear [post]
func (h *systemHandler) clearAllData(c *gin.Context) {
	if err := h.systemService.ClearAllData(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear data")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("All data cleared")
	c.Status(http.StatusNoContent)
}
