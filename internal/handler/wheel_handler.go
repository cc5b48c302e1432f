package handler

import (
	"net/http"

	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

// WheelHandler is the admin surface for wheel and prize management.
type WheelHandler struct {
	svc *service.WheelService
}

func NewWheelHandler(svc *service.WheelService) *WheelHandler {
	return &WheelHandler{svc: svc}
}

func (h *WheelHandler) List(c *gin.Context) {
	wheels, err := h.svc.List()
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wheels": wheels})
}

func (h *WheelHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	w, err := h.svc.Get(id)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wheel": w})
}

func (h *WheelHandler) Create(c *gin.Context) {
	var req service.WheelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Create(req)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"wheel": w})
}

func (h *WheelHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.WheelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Update(id, req)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wheel": w})
}

func (h *WheelHandler) Activate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Activate(id); err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wheel activated"})
}

func (h *WheelHandler) Deactivate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(id); err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wheel deactivated"})
}

func (h *WheelHandler) AddPrize(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.PrizeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.AddPrize(id, req)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prize": p})
}

func (h *WheelHandler) UpdatePrize(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.PrizeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.UpdatePrize(id, req)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prize": p})
}

func (h *WheelHandler) DeletePrize(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePrize(id); err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "prize deleted"})
}

// SpinHistory lists the ledger for a wheel, newest first.
func (h *WheelHandler) SpinHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	records, err := h.svc.SpinHistory(id, limit, offset)
	if err != nil {
		respondError(c, "wheel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spins": records})
}
