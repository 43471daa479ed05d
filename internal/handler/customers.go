package handler

import (
	"errors"
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Add(c *gin.Context) {
	var req dto.AddCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Upsert(c.Request.Context(), sessionID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Müşteri kaydedilemedi"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	resp, err := h.svc.Delete(c.Request.Context(), sessionID(c), c.Param("id"))
	if errors.Is(err, service.ErrCustomerNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Müşteri bulunamadı"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Müşteri silinemedi"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
