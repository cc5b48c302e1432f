package handler

import (
	"net/http"
	"time"

	"softcart/internal/middleware"
	"softcart/internal/service"

	"github.com/gin-gonic/gin"
)

type SpinHandler struct {
	svc *service.SpinService
}

func NewSpinHandler(svc *service.SpinService) *SpinHandler {
	return &SpinHandler{svc: svc}
}

// Status returns eligibility plus the wheel layout for the widget.
func (h *SpinHandler) Status(c *gin.Context) {
	id := middleware.GetIdentity(c)
	elig, wheel, err := h.svc.Status(id, time.Now())
	if err != nil {
		respondError(c, "spin", err)
		return
	}
	body := gin.H{"eligibility": elig}
	if wheel != nil {
		body["wheel"] = gin.H{
			"id":                  wheel.ID,
			"name":                wheel.Name,
			"prizes":              wheel.Prizes,
			"popup_enabled":       wheel.PopupEnabled,
			"popup_delay_seconds": wheel.PopupDelaySeconds,
		}
	}
	c.JSON(http.StatusOK, body)
}

// Spin performs one draw for the caller's identity.
func (h *SpinHandler) Spin(c *gin.Context) {
	id := middleware.GetIdentity(c)
	result, err := h.svc.Spin(id, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, "spin", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
