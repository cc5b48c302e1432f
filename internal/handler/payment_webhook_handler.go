package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"softcart/config"
	"softcart/internal/apperr"
	"softcart/internal/service"
	"softcart/pkg/payment"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	cfg        *config.Config
	paymentSvc *service.PaymentService
}

func NewPaymentWebhookHandler(cfg *config.Config, paymentSvc *service.PaymentService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, paymentSvc: paymentSvc}
}

type webhookPayload struct {
	EventID     string `json:"event_id"`
	Type        string `json:"type"`
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
}

// Handle receives gateway lifecycle events. Ack semantics matter here:
// unknown order references get a 200 so the gateway stops retrying a
// delivery we can never use, while store failures get a 500 so it retries
// later. Dedup happens inside the service.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Payment.WebhookSecret != "" {
		if !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.EventID == "" || payload.Type == "" || payload.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id, type and order_id required"})
		return
	}
	ev := payment.Event{
		Type:        payload.Type,
		EventID:     payload.EventID,
		OrderNumber: payload.OrderID,
		ProviderRef: payload.PaymentID,
		AmountCents: payload.AmountCents,
	}
	if err := h.paymentSvc.HandleEvent(ev, string(body)); err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		respondError(c, "webhook", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.Payment.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
