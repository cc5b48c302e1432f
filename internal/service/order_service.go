package service

import (
	"errors"
	"fmt"
	"log"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	orderRepo   *repository.OrderRepository
	licenseRepo *repository.LicenseRepository
	auditRepo   *repository.AuditLogRepository
}

func NewOrderService(orderRepo *repository.OrderRepository, licenseRepo *repository.LicenseRepository, auditRepo *repository.AuditLogRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, licenseRepo: licenseRepo, auditRepo: auditRepo}
}

// fulfillmentAllowed reports whether an order may move to the given
// fulfillment status. The path is strictly CONFIRMED -> SHIPPED ->
// DELIVERED; every other target is rejected here (cancellations and
// refunds go through the payment event path).
func fulfillmentAllowed(current, next string) bool {
	switch next {
	case domain.OrderShipped:
		return current == domain.OrderConfirmed
	case domain.OrderDelivered:
		return current == domain.OrderShipped
	default:
		return false
	}
}

// AdvanceStatus moves a physical-goods order along the fulfillment
// path. Admin only.
func (s *OrderService) AdvanceStatus(orderID uint, next string, adminID uint, ip, userAgent string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load order", err)
	}
	if !order.HasPhysical() {
		return nil, apperr.New(apperr.Conflict, "digital-only orders have no fulfillment")
	}
	if !fulfillmentAllowed(order.Status, next) {
		return nil, apperr.Newf(apperr.Conflict, "cannot move order from %s to %s", order.Status, next)
	}
	if err := s.orderRepo.SetFulfillment(order.ID, next); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update order", err)
	}
	_ = s.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     "order_fulfillment",
		Resource:   "order",
		ResourceID: order.OrderNumber,
		IP:         ip,
		UserAgent:  userAgent,
		Metadata:   fmt.Sprintf(`{"from":%q,"to":%q}`, order.Status, next),
	})
	log.Printf("[order] order %s fulfillment %s -> %s", order.OrderNumber, order.Status, next)
	return s.orderRepo.GetByID(orderID)
}

func (s *OrderService) ListForUser(userID uint, limit, offset int) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list orders", err)
	}
	return orders, nil
}

// Get returns one order with its license keys. Customers only see their
// own orders; pass admin=true to skip the ownership check.
func (s *OrderService) Get(orderID, userID uint, admin bool) (*models.Order, []models.LicenseKey, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "load order", err)
	}
	if !admin && order.UserID != userID {
		return nil, nil, apperr.New(apperr.NotFound, "order not found")
	}
	licenses, err := s.licenseRepo.ListByOrder(order.ID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "load licenses", err)
	}
	return order, licenses, nil
}

func (s *OrderService) ListAll(limit, offset int) ([]models.Order, error) {
	orders, err := s.orderRepo.List(limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list orders", err)
	}
	return orders, nil
}
