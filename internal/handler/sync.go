package handler

import (
	"errors"
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	sync      service.SyncService
	snapshots service.SnapshotService
}

func NewSyncHandler(sync service.SyncService, snapshots service.SnapshotService) *SyncHandler {
	return &SyncHandler{sync: sync, snapshots: snapshots}
}

// Data serves the full four-collection snapshot clients hydrate from.
func (h *SyncHandler) Data(c *gin.Context) {
	snap, err := h.snapshots.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Veriler okunamadı"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snap,
		"counts":  snap.Counts(),
	})
}

// Sync merges a full client snapshot and reports per-collection outcomes.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Geçersiz JSON: "+err.Error()))
		return
	}

	result, err := h.sync.Merge(c.Request.Context(), req)
	if errors.Is(err, service.ErrMissingCollection) {
		c.JSON(http.StatusBadRequest, apierror.New("Eksik koleksiyon: products, sales, customers ve debts zorunlu"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Senkronizasyon başarısız"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Senkronizasyon tamamlandı",
		"results": result,
	})
}
