package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"
	"softcart/pkg/payment"

	"gorm.io/gorm"
)

// PaymentService applies gateway events to orders, payments and licenses.
// Every event is recorded in webhook_events first; the unique
// (provider, event_id) index makes redelivery a no-op.
type PaymentService struct {
	db          *gorm.DB
	orderRepo   *repository.OrderRepository
	paymentRepo *repository.PaymentRepository
	licenseRepo *repository.LicenseRepository
	webhookRepo *repository.WebhookEventRepository
	auditRepo   *repository.AuditLogRepository
	provider    payment.Provider
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	paymentRepo *repository.PaymentRepository,
	licenseRepo *repository.LicenseRepository,
	webhookRepo *repository.WebhookEventRepository,
	auditRepo *repository.AuditLogRepository,
	provider payment.Provider,
) *PaymentService {
	return &PaymentService{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		licenseRepo: licenseRepo,
		webhookRepo: webhookRepo,
		auditRepo:   auditRepo,
		provider:    provider,
	}
}

// eventAllowed reports whether an event may still apply given the
// payment's current status. REFUNDED and CANCELLED are terminal and
// accept nothing; COMPLETED accepts only a refund. A FAILED payment may
// still complete when the shopper retries the charge on the gateway
// side, since its licenses were never revoked.
func eventAllowed(payStatus, eventType string) bool {
	switch payStatus {
	case domain.PaymentRefunded, domain.PaymentCancelled:
		return false
	case domain.PaymentCompleted:
		return eventType == domain.PaymentEventRefunded
	case domain.PaymentFailed:
		return eventType == domain.PaymentEventCompleted
	default:
		return true
	}
}

// transitionFor maps a gateway event type to the resulting payment and
// order statuses. Unknown event types return ok=false and are ignored.
func transitionFor(eventType string) (paymentStatus, orderStatus string, ok bool) {
	switch eventType {
	case domain.PaymentEventCompleted:
		return domain.PaymentCompleted, domain.OrderConfirmed, true
	case domain.PaymentEventFailed:
		return domain.PaymentFailed, domain.OrderCancelled, true
	case domain.PaymentEventExpired:
		return domain.PaymentCancelled, domain.OrderCancelled, true
	case domain.PaymentEventRefunded:
		return domain.PaymentRefunded, domain.OrderRefunded, true
	default:
		return "", "", false
	}
}

// HandleEvent processes one webhook delivery. Returns nil for handled and
// deduplicated events alike; an apperr.NotFound means the order reference
// is unknown (the handler still acks those so the gateway stops retrying).
func (s *PaymentService) HandleEvent(ev payment.Event, rawPayload string) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByOrderNumber(ev.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.NotFound, "unknown order %q", ev.OrderNumber)
			}
			return apperr.Wrap(apperr.Internal, "load order", err)
		}

		rec := &models.WebhookEvent{
			Provider:   s.provider.Name(),
			EventID:    ev.EventID,
			EventType:  ev.Type,
			OrderID:    order.ID,
			Payload:    rawPayload,
			ReceivedAt: now,
		}
		if err := s.webhookRepo.WithTx(tx).Record(rec); err != nil {
			if errors.Is(err, repository.ErrEventSeen) {
				log.Printf("[payment] duplicate event %s for order %s, skipping", ev.EventID, ev.OrderNumber)
				return nil
			}
			return apperr.Wrap(apperr.Internal, "record webhook event", err)
		}

		pay, err := s.paymentRepo.WithTx(tx).GetByOrderID(order.ID)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "load payment", err)
		}

		if !eventAllowed(pay.Status, ev.Type) {
			log.Printf("[payment] order %s payment is %s, ignoring %q event", ev.OrderNumber, pay.Status, ev.Type)
			return nil
		}

		payStatus, orderStatus, ok := transitionFor(ev.Type)
		if !ok {
			log.Printf("[payment] ignoring unknown event type %q for order %s", ev.Type, ev.OrderNumber)
			return nil
		}

		pay.Status = payStatus
		switch ev.Type {
		case domain.PaymentEventCompleted:
			completed := now
			pay.CompletedAt = &completed
			if ev.ProviderRef != "" {
				pay.ProviderRef = ev.ProviderRef
			}
		}
		if err := s.paymentRepo.WithTx(tx).Update(pay); err != nil {
			return apperr.Wrap(apperr.Internal, "update payment", err)
		}
		if err := s.orderRepo.WithTx(tx).SetStatus(order.ID, orderStatus, payStatus); err != nil {
			return apperr.Wrap(apperr.Internal, "update order", err)
		}

		licenseRepo := s.licenseRepo.WithTx(tx)
		switch ev.Type {
		case domain.PaymentEventCompleted:
			if err := licenseRepo.ActivateAllForOrder(order.ID); err != nil {
				return apperr.Wrap(apperr.Internal, "activate licenses", err)
			}
		case domain.PaymentEventRefunded:
			if err := licenseRepo.RevokeAllForOrder(order.ID); err != nil {
				return apperr.Wrap(apperr.Internal, "revoke licenses", err)
			}
		}

		_ = s.auditRepo.WithTx(tx).Create(&models.AuditLog{
			UserID:     &order.UserID,
			Action:     "payment_" + ev.Type,
			Resource:   "order",
			ResourceID: order.OrderNumber,
			Metadata:   fmt.Sprintf(`{"event_id":%q,"amount_cents":%d}`, ev.EventID, ev.AmountCents),
		})
		log.Printf("[payment] order %s: %s -> payment=%s order=%s", ev.OrderNumber, ev.Type, payStatus, orderStatus)
		return nil
	})
}

// Refund marks a paid order refunded and revokes its licenses. Admin only;
// the gateway-side money movement is assumed done out of band, so this is
// applied as a synthetic refund event to keep one code path.
func (s *PaymentService) Refund(orderID uint, adminID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load order", err)
	}
	if order.PaymentStatus != domain.PaymentCompleted {
		return nil, apperr.New(apperr.Conflict, "only completed payments can be refunded")
	}
	ev := payment.Event{
		Type:        domain.PaymentEventRefunded,
		EventID:     fmt.Sprintf("manual_refund_%d_%d", orderID, time.Now().UnixNano()),
		OrderNumber: order.OrderNumber,
		AmountCents: order.TotalCents,
	}
	if err := s.HandleEvent(ev, fmt.Sprintf(`{"manual":true,"admin_id":%d,"reason":%q}`, adminID, reason)); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(orderID)
}

// VerifyPending polls the provider for a still-pending payment, used when
// a webhook was missed. Completed/failed verdicts go through HandleEvent.
func (s *PaymentService) VerifyPending(ctx context.Context, orderID uint) (*models.Payment, error) {
	pay, err := s.paymentRepo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "payment not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load payment", err)
	}
	if pay.Status == domain.PaymentCompleted {
		return pay, nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "load order", err)
	}
	resp, err := s.provider.VerifyPayment(ctx, pay.ProviderRef)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "verify payment", err)
	}
	if resp.Status == "completed" || resp.Status == "failed" || resp.Status == "expired" {
		ev := payment.Event{
			Type:        resp.Status,
			EventID:     fmt.Sprintf("verify_%s_%d", pay.ProviderRef, time.Now().UnixNano()),
			OrderNumber: order.OrderNumber,
			ProviderRef: pay.ProviderRef,
			AmountCents: pay.AmountCents,
		}
		if err := s.HandleEvent(ev, `{"source":"verify"}`); err != nil {
			return nil, err
		}
	}
	return s.paymentRepo.GetByOrderID(orderID)
}
