package handler

import (
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/worker"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct{ dispatcher *worker.Dispatcher }

func NewBackupHandler(dispatcher *worker.Dispatcher) *BackupHandler {
	return &BackupHandler{dispatcher: dispatcher}
}

// Trigger enqueues a manual backup job. The worker pool picks it up; the
// response only confirms the enqueue.
func (h *BackupHandler) Trigger(c *gin.Context) {
	payload := worker.BackupJobPayload{Reason: "manual"}
	if err := h.dispatcher.EnqueueBackup(c.Request.Context(), payload); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Yedekleme başlatılamadı"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Yedekleme kuyruğa alındı"})
}
