package handler

import (
	"net/http"

	"softcart/internal/middleware"
	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderSvc    *service.OrderService
	checkoutSvc *service.CheckoutService
	paymentSvc  *service.PaymentService
}

func NewOrderHandler(orderSvc *service.OrderService, checkoutSvc *service.CheckoutService, paymentSvc *service.PaymentService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, checkoutSvc: checkoutSvc, paymentSvc: paymentSvc}
}

// Checkout places an order from the request's line items.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req service.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	result, err := h.checkoutSvc.PlaceOrder(c.Request.Context(), userID, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, "checkout", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.orderSvc.ListForUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, licenses, err := h.orderSvc.Get(id, middleware.GetUserID(c), false)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "licenses": licenses})
}

// VerifyPayment polls the gateway for a payment whose webhook never
// arrived.
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	// ownership check via the usual path
	if _, _, err := h.orderSvc.Get(id, middleware.GetUserID(c), false); err != nil {
		respondError(c, "order", err)
		return
	}
	pay, err := h.paymentSvc.VerifyPending(c.Request.Context(), id)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": pay})
}

// AdminList returns all orders.
func (h *OrderHandler) AdminList(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.orderSvc.ListAll(limit, offset)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, licenses, err := h.orderSvc.Get(id, 0, true)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "licenses": licenses})
}

type FulfillmentRequest struct {
	Status string `json:"status" binding:"required,oneof=SHIPPED DELIVERED"`
}

// UpdateStatus advances a physical-goods order along the fulfillment
// path (CONFIRMED -> SHIPPED -> DELIVERED).
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orderSvc.AdvanceStatus(id, req.Status, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Refund marks a completed order refunded and revokes its licenses.
func (h *OrderHandler) Refund(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.paymentSvc.Refund(id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		respondError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
