package handler

import (
	"net/http"
	"time"

	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	svc *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

type ValidateCouponRequest struct {
	Code           string `json:"code" binding:"required"`
	CartTotalCents int64  `json:"cart_total_cents" binding:"min=0"`
}

// Validate previews the discount a coupon would apply to the given cart
// total. Read-only; redemption happens at checkout.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.svc.Validate(req.Code, req.CartTotalCents, time.Now())
	if err != nil {
		respondError(c, "coupon", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "discount": d})
}
