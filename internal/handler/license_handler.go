package handler

import (
	"net/http"

	"softcart/internal/middleware"
	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

type LicenseHandler struct {
	svc *service.LicenseService
}

func NewLicenseHandler(svc *service.LicenseService) *LicenseHandler {
	return &LicenseHandler{svc: svc}
}

func (h *LicenseHandler) List(c *gin.Context) {
	keys, err := h.svc.ListForUser(middleware.GetUserID(c))
	if err != nil {
		respondError(c, "license", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"licenses": keys})
}

type ActivateLicenseRequest struct {
	Key       string `json:"key" binding:"required"`
	MachineID string `json:"machine_id" binding:"required,max=128"`
}

// Activate binds a machine to one of the caller's license keys.
func (h *LicenseHandler) Activate(c *gin.Context) {
	var req ActivateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lic, err := h.svc.Activate(middleware.GetUserID(c), req.Key, req.MachineID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, "license", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"license": lic})
}
