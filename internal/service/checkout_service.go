package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"softcart/config"
	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"
	"softcart/pkg/keygen"
	"softcart/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService turns a cart into an order: server-side pricing, stock
// reservation, license creation and payment initiation. Everything that
// touches the store happens in one transaction; a failure anywhere rolls
// the whole order back.
type CheckoutService struct {
	db          *gorm.DB
	cfg         *config.Config
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	licenseRepo *repository.LicenseRepository
	paymentRepo *repository.PaymentRepository
	cartRepo    *repository.CartRepository
	auditRepo   *repository.AuditLogRepository
	couponSvc   *CouponService
	provider    payment.Provider
}

func NewCheckoutService(
	db *gorm.DB,
	cfg *config.Config,
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	licenseRepo *repository.LicenseRepository,
	paymentRepo *repository.PaymentRepository,
	cartRepo *repository.CartRepository,
	auditRepo *repository.AuditLogRepository,
	couponSvc *CouponService,
	provider payment.Provider,
) *CheckoutService {
	return &CheckoutService{
		db:          db,
		cfg:         cfg,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		licenseRepo: licenseRepo,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		auditRepo:   auditRepo,
		couponSvc:   couponSvc,
		provider:    provider,
	}
}

type CheckoutItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CheckoutInput struct {
	Items           []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	CouponCode      string         `json:"coupon_code"`
	ShippingAddress string         `json:"shipping_address"`
}

type CheckoutResult struct {
	Order       *models.Order `json:"order"`
	CheckoutURL string        `json:"checkout_url,omitempty"`
}

// totals computes the order money lines. The invariant is
// total = subtotal - discount + tax + shipping; the discount is clamped
// to the subtotal so totals never go negative.
type totals struct {
	Subtotal int64
	Discount int64
	Tax      int64
	Shipping int64
	Total    int64
}

func computeTotals(subtotal, discount, taxRateBps, shippingFlat int64, hasPhysical, freeShipping bool) totals {
	if discount > subtotal {
		discount = subtotal
	}
	t := totals{Subtotal: subtotal, Discount: discount}
	t.Tax = (subtotal - discount) * taxRateBps / 10000
	if hasPhysical && !freeShipping {
		t.Shipping = shippingFlat
	}
	t.Total = subtotal - discount + t.Tax + t.Shipping
	return t
}

// generateLicenseKey retries until the drawn key is unused. Collisions
// are vanishingly rare but the loop is what makes uniqueness a fact
// rather than a probability.
func generateLicenseKey(repo *repository.LicenseRepository) (string, error) {
	for {
		key := keygen.LicenseKey()
		exists, err := repo.KeyExists(key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
	}
}

// PlaceOrder validates every line item against the live catalog, prices
// the order server-side and creates order, items, licenses and the
// pending payment atomically. Payment initiation with the provider
// happens after commit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint, in CheckoutInput, ip, userAgent string) (*CheckoutResult, error) {
	now := time.Now()
	var order *models.Order
	var pay *models.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		licenseRepo := s.licenseRepo.WithTx(tx)

		var items []models.OrderItem
		var subtotal int64
		hasPhysical := false
		for _, line := range in.Items {
			if line.Quantity <= 0 {
				return apperr.New(apperr.Invalid, "quantity must be positive")
			}
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.NotFound, "product %d not found", line.ProductID)
				}
				return apperr.Wrap(apperr.Internal, "load product", err)
			}
			if !product.IsActive {
				return apperr.Newf(apperr.Invalid, "product %q is unavailable", product.Name)
			}
			if !product.IsDigital {
				hasPhysical = true
				if err := productRepo.DecrementStock(product.ID, line.Quantity); err != nil {
					if errors.Is(err, repository.ErrInsufficientStock) {
						return apperr.Newf(apperr.Invalid, "insufficient stock for %q", product.Name).
							WithMeta("product_id", product.ID).
							WithMeta("remaining", product.Stock)
					}
					return apperr.Wrap(apperr.Internal, "reserve stock", err)
				}
			}
			items = append(items, models.OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				UnitPriceCents: product.PriceCents,
				Quantity:       line.Quantity,
				IsDigital:      product.IsDigital,
			})
			subtotal += product.PriceCents * int64(line.Quantity)
		}

		if hasPhysical && strings.TrimSpace(in.ShippingAddress) == "" {
			return apperr.New(apperr.Invalid, "shipping address required for physical items")
		}

		var discount int64
		freeShipping := false
		var couponCode *string
		if in.CouponCode != "" {
			d, err := s.couponSvc.Validate(in.CouponCode, subtotal, now)
			if err != nil {
				return err
			}
			discount = d.AmountCents
			freeShipping = d.FreeShipping
			code := in.CouponCode
			couponCode = &code
			if err := s.couponSvc.Redeem(tx, in.CouponCode); err != nil {
				return err
			}
		}

		t := computeTotals(subtotal, discount, s.cfg.Checkout.TaxRateBps, s.cfg.Checkout.ShippingFlatCents, hasPhysical, freeShipping)

		order = &models.Order{
			OrderNumber:     keygen.OrderNumber(now),
			UserID:          userID,
			Status:          domain.OrderPending,
			PaymentStatus:   domain.PaymentPending,
			SubtotalCents:   t.Subtotal,
			DiscountCents:   t.Discount,
			TaxCents:        t.Tax,
			ShippingCents:   t.Shipping,
			TotalCents:      t.Total,
			Currency:        s.cfg.Checkout.Currency,
			CouponCode:      couponCode,
			ShippingAddress: in.ShippingAddress,
			Items:           items,
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return apperr.Wrap(apperr.Internal, "create order", err)
		}

		// One SUSPENDED license per unit of each digital line item.
		for _, it := range order.Items {
			if !it.IsDigital {
				continue
			}
			product, err := productRepo.GetByID(it.ProductID)
			if err != nil {
				return apperr.Wrap(apperr.Internal, "load product for licensing", err)
			}
			for n := 0; n < it.Quantity; n++ {
				key, err := generateLicenseKey(licenseRepo)
				if err != nil {
					return apperr.Wrap(apperr.Internal, "generate license key", err)
				}
				expiry := now.AddDate(0, 0, product.LicenseValidityDays)
				lic := &models.LicenseKey{
					Key:             key,
					ProductID:       it.ProductID,
					UserID:          userID,
					OrderID:         order.ID,
					Status:          domain.LicenseSuspended,
					ActivationLimit: product.LicenseActivationLimit,
					ExpiresAt:       &expiry,
				}
				if err := licenseRepo.Create(lic); err != nil {
					return apperr.Wrap(apperr.Internal, "create license", err)
				}
			}
		}

		pay = &models.Payment{
			OrderID:        order.ID,
			UserID:         userID,
			AmountCents:    t.Total,
			Currency:       s.cfg.Checkout.Currency,
			Provider:       s.provider.Name(),
			ProviderRef:    order.OrderNumber, // replaced once the gateway answers
			IdempotencyKey: uuid.NewString(),
			Status:         domain.PaymentPending,
		}
		if err := s.paymentRepo.WithTx(tx).Create(pay); err != nil {
			return apperr.Wrap(apperr.Internal, "create payment", err)
		}

		if err := s.cartRepo.WithTx(tx).Clear(domain.UserIdentity(userID)); err != nil {
			return apperr.Wrap(apperr.Internal, "clear cart", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.InitiatePayment(ctx, payment.Request{
		OrderNumber:    order.OrderNumber,
		UserID:         userID,
		AmountCents:    order.TotalCents,
		Currency:       order.Currency,
		IdempotencyKey: pay.IdempotencyKey,
		Description:    fmt.Sprintf("order %s", order.OrderNumber),
		ExpiresIn:      s.cfg.Payment.PaymentExpiry,
	})
	if err != nil {
		log.Printf("[checkout] payment initiation failed for order %s: %v", order.OrderNumber, err)
		return nil, apperr.Wrap(apperr.Internal, "initiate payment", err)
	}
	pay.ProviderRef = resp.Reference
	pay.Status = domain.PaymentProcessing
	if !resp.ExpiresAt.IsZero() {
		exp := resp.ExpiresAt
		pay.ExpiresAt = &exp
	}
	if err := s.paymentRepo.Update(pay); err != nil {
		log.Printf("[checkout] payment ref update failed for order %s: %v", order.OrderNumber, err)
	}

	_ = s.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     "checkout",
		Resource:   "order",
		ResourceID: order.OrderNumber,
		IP:         ip,
		UserAgent:  userAgent,
		Metadata:   fmt.Sprintf(`{"total_cents":%d,"items":%d}`, order.TotalCents, len(order.Items)),
	})
	log.Printf("[checkout] order %s created for user %d total=%d", order.OrderNumber, userID, order.TotalCents)
	return &CheckoutResult{Order: order, CheckoutURL: resp.CheckoutURL}, nil
}
