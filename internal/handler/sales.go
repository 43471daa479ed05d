package handler

import (
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func (h *SalesHandler) Add(c *gin.Context) {
	var req dto.AddSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), sessionID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Satış kaydedilemedi"))
		return
	}
	// A retried submission answers 200 with duplicate=true, not 201.
	if resp.Duplicate {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
