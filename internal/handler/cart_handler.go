package handler

import (
	"net/http"

	"softcart/internal/middleware"
	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) View(c *gin.Context) {
	view, err := h.svc.View(middleware.GetIdentity(c))
	if err != nil {
		respondError(c, "cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.svc.Add(middleware.GetIdentity(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, "cart", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateQuantity(middleware.GetIdentity(c), id, req.Quantity); err != nil {
		respondError(c, "cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Remove(middleware.GetIdentity(c), id); err != nil {
		respondError(c, "cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(middleware.GetIdentity(c)); err != nil {
		respondError(c, "cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
