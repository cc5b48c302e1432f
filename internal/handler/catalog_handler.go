package handler

import (
	"net/http"
	"strconv"

	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 10 << 20

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// List is the public storefront listing: active products only.
func (h *CatalogHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	products, err := h.svc.ListActive(limit, offset)
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// ListAll includes inactive products. Admin only.
func (h *CatalogHandler) ListAll(c *gin.Context) {
	limit, offset := pagination(c)
	products, err := h.svc.ListAll(limit, offset)
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(req)
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(id, req)
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// UploadImage attaches product imagery via multipart form field "image".
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large (max 10MB)"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer file.Close()
	p, err := h.svc.AttachImage(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, "catalog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}
