// Package data implements the /api/data handlers for file-level snapshot
// operations: stats, backup, reset, export and import.
package data

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/service"
)

// Handler serves data management endpoints. All of them are admin-gated at
// the router.
type Handler struct {
	manager *service.DataManager
	logger  *zap.Logger
}

// NewHandler creates a data Handler.
func NewHandler(manager *service.DataManager, logger *zap.Logger) *Handler {
	return &Handler{manager: manager, logger: logger.Named("data")}
}

// Stats returns record counts and file metadata for both collections.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.manager.Stats()
	if err != nil {
		h.logger.Error("failed to gather data stats", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	response.OK(c, http.StatusOK, stats)
}

type backupRequest struct {
	Name string `json:"name"`
}

// Backup copies the current collection files into a backup directory. The
// body may carry an optional backup name.
func (h *Handler) Backup(c *gin.Context) {
	var req backupRequest
	_ = c.ShouldBindJSON(&req)

	info, err := h.manager.Backup(req.Name)
	if err != nil {
		h.logger.Error("backup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	response.Message(c, http.StatusOK, info, "Backup created successfully")
}

// Reset replaces both collections with the shipped defaults, backing up the
// current data first.
func (h *Handler) Reset(c *gin.Context) {
	backup, err := h.manager.Reset()
	if err != nil {
		h.logger.Error("reset failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	response.Message(c, http.StatusOK, backup, "Data reset to defaults successfully")
}

// Export returns a snapshot of both collections in one payload.
func (h *Handler) Export(c *gin.Context) {
	response.OK(c, http.StatusOK, h.manager.Export())
}

// Import replaces the collections with the posted snapshot, backing up the
// current data first.
func (h *Handler) Import(c *gin.Context) {
	var payload service.ExportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}
	if payload.Books == nil && payload.Authors == nil {
		response.Error(c, http.StatusBadRequest, "Nothing to import",
			"Payload must contain a books or authors array")
		return
	}

	backup, err := h.manager.Import(payload)
	if err != nil {
		h.logger.Error("import failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	response.Message(c, http.StatusOK, backup, "Data imported successfully")
}
