package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/gin-gonic/gin"
)

// passphraseHeader carries the backup passphrase so it never lands in access logs.
const passphraseHeader = "X-Backup-Passphrase"

// backupHandler handles snapshot downloads and restores.
type backupHandler struct {
	backupService portssvc.BackupSvc
	maxBytes      int64
}

func newBackupHandler(bs portssvc.BackupSvc, maxBytes int64) *backupHandler {
	return &backupHandler{backupService: bs, maxBytes: maxBytes}
}

// registerBackupRoutes registers the scoped backup and restore routes.
func registerBackupRoutes(scoped *gin.RouterGroup, backupService portssvc.BackupSvc, maxBytes int64) {
	h := newBackupHandler(backupService, maxBytes)

	scoped.GET("/backup", h.createBackup)
	scoped.POST("/restore", h.restoreBackup)
	scoped.POST("/restore/stage", h.stageRestore)
}

// registerBackupFormatRoutes registers the format registry route.
func registerBackupFormatRoutes(rg *gin.RouterGroup) {
	rg.GET("/backup/formats", listBackupFormats)
}

// listBackupFormats godoc
// @Summary List backup formats
// @Tags backup
// @Produce json
// @Success 200 {array} dto.BackupFormatResponse
// @Security BearerAuth
// @Router /backup/formats [get]
func listBackupFormats(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToBackupFormatsResponse(domain.BackupFormats))
}

// createBackup godoc
// @Summary Download a backup
// @Description Exports the fiscal year as a snapshot file. The encrypted format needs the X-Backup-Passphrase header.
// @Tags backup
// @Produce octet-stream
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param format query string false "Backup format" Enums(ledgerbook-json, ledgerbook-json-gzip, ledgerbook-encrypted)
// @Param X-Backup-Passphrase header string false "Passphrase for the encrypted format"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid format or missing passphrase"
// @Failure 404 {object} map[string]string "Bank not found"
// @Failure 500 {object} map[string]string "Failed to create backup"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/backup [get]
func (h *backupHandler) createBackup(c *gin.Context) {
	var params dto.BackupParams
	if !bindQuery(c, &params) {
		return
	}

	file, err := h.backupService.CreateBackup(c.Request.Context(), scopeFromCtx(c), domain.BackupOptions{
		Format:     domain.BackupFormat(params.Format),
		Passphrase: c.GetHeader(passphraseHeader),
		UserAgent:  c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err, "Failed to create backup")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Backup created",
		slog.String("file_name", file.FileName), slog.Int("bytes", len(file.Data)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.MimeType, file.Data)
}

// restoreBackup godoc
// @Summary Restore a backup
// @Description Rebuilds the fiscal year from an uploaded snapshot. Nothing is written when the snapshot is invalid.
// @Tags backup
// @Accept multipart/form-data
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param file formData file true "Snapshot file"
// @Param X-Backup-Passphrase header string false "Passphrase for encrypted snapshots"
// @Success 200 {object} domain.RestoreResult
// @Failure 400 {object} map[string]string "Missing file or passphrase"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 413 {object} map[string]string "Snapshot too large"
// @Failure 422 {object} map[string]string "Snapshot is not usable"
// @Failure 500 {object} map[string]string "Failed to restore backup"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/restore [post]
func (h *backupHandler) restoreBackup(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	scope := scopeFromCtx(c)

	result, err := h.backupService.RestoreBackup(c.Request.Context(), data, domain.RestoreOptions{
		Target:     &scope,
		Passphrase: c.GetHeader(passphraseHeader),
	})
	if err != nil {
		respondError(c, err, "Failed to restore backup")
		return
	}
	c.JSON(http.StatusOK, result)
}

// stageRestore godoc
// @Summary Stage a backup for the next start
// @Description Validates the snapshot now and applies it the next time the server starts
// @Tags backup
// @Accept multipart/form-data
// @Produce json
// @Param bankID path int true "Bank ID"
// @Param year path int true "Fiscal year"
// @Param file formData file true "Snapshot file"
// @Param X-Backup-Passphrase header string false "Passphrase for encrypted snapshots"
// @Success 202 {object} dto.StageRestoreResponse
// @Failure 400 {object} map[string]string "Missing file or passphrase"
// @Failure 413 {object} map[string]string "Snapshot too large"
// @Failure 422 {object} map[string]string "Snapshot is not usable"
// @Security BearerAuth
// @Router /banks/{bankID}/years/{year}/restore/stage [post]
func (h *backupHandler) stageRestore(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	scope := scopeFromCtx(c)

	pending, err := h.backupService.StageRestore(c.Request.Context(), data, domain.RestoreOptions{
		Target:     &scope,
		Passphrase: c.GetHeader(passphraseHeader),
	})
	if err != nil {
		respondError(c, err, "Failed to stage restore")
		return
	}
	c.JSON(http.StatusAccepted, dto.StageRestoreResponse{Staged: true, Target: pending.Target, StagedAt: pending.StagedAt})
}

// readUpload reads the "file" form field. It stops one byte past the size
// ceiling so the codec can report the oversize itself.
func (h *backupHandler) readUpload(c *gin.Context) ([]byte, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	header, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Snapshot file missing from upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Snapshot file is required in the 'file' form field"})
		return nil, false
	}
	if header.Size > h.maxBytes {
		logger.Warn("Snapshot upload too large", slog.Int64("size", header.Size), slog.Int64("max", h.maxBytes))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Snapshot exceeds %d bytes", h.maxBytes)})
		return nil, false
	}

	f, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return nil, false
	}
	return data, true
}
