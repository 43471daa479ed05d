package handler

import (
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/config"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	cfg       *config.Config
	snapshots service.SnapshotService
	hub       *broadcast.Hub
}

func NewStatusHandler(cfg *config.Config, snapshots service.SnapshotService, hub *broadcast.Hub) *StatusHandler {
	return &StatusHandler{cfg: cfg, snapshots: snapshots, hub: hub}
}

// Status reports the store driver, table counts and live session stats.
func (h *StatusHandler) Status(c *gin.Context) {
	counts, err := h.snapshots.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Durum okunamadı"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"driver":        h.cfg.DBDriver,
		"counts":        counts,
		"liveSessions":  h.hub.SubscriberCount(),
		"droppedEvents": h.hub.Dropped(),
	})
}
