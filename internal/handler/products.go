package handler

import (
	"errors"
	"net/http"

	"github.com/Muhammet-Aksoy/stokv1/internal/apierror"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Add(c *gin.Context) {
	var req dto.AddProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), sessionID(c), req)
	if errors.Is(err, service.ErrDuplicateIdentity) {
		c.JSON(http.StatusConflict, apierror.New("Bu ürün zaten kayıtlı (aynı kod, marka ve varyant)"))
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Geçersiz ID"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), sessionID(c), id, req)
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Ürün bulunamadı"))
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	code := c.Param("code")
	resp, err := h.svc.DeleteByCode(c.Request.Context(), sessionID(c), code)
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Ürün bulunamadı"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Ürün silinemedi"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Variants(c *gin.Context) {
	resp, err := h.svc.Variants(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Varyantlar listelenemedi"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkUpdate(c.Request.Context(), sessionID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Kategoriler listelenemedi"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}
