package service

import (
	"errors"
	"time"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"gorm.io/gorm"
)

// CouponService validates and redeems the coupon codes minted by winning
// spins. Minting itself happens inside the spin transaction.
type CouponService struct {
	spinRepo *repository.SpinRepository
}

func NewCouponService(spinRepo *repository.SpinRepository) *CouponService {
	return &CouponService{spinRepo: spinRepo}
}

// Discount is the result of a successful validation: what to subtract
// from the cart and whether shipping goes free.
type Discount struct {
	Code         string `json:"code"`
	Type         string `json:"type"`
	AmountCents  int64  `json:"amount_cents"`
	FreeShipping bool   `json:"free_shipping"`
}

// computeDiscount turns a payout into a concrete discount for the given
// cart total. Free shipping carries no amount; the checkout zeroes the
// shipping line instead.
func computeDiscount(p models.Payout, cartTotalCents int64) Discount {
	switch v := p.(type) {
	case models.FixedDiscount:
		return Discount{Type: domain.DiscountTypeFixed, AmountCents: v.AmountCents}
	case models.PercentDiscount:
		amount := cartTotalCents * v.Percent / 100
		if v.MaxCents > 0 && amount > v.MaxCents {
			amount = v.MaxCents
		}
		return Discount{Type: domain.DiscountTypePercent, AmountCents: amount}
	case models.Cashback:
		return Discount{Type: domain.DiscountTypeCashback, AmountCents: v.AmountCents}
	case models.FreeShipping:
		return Discount{Type: domain.DiscountTypeFreeShipping, FreeShipping: true}
	default:
		return Discount{Type: domain.DiscountTypeFixed}
	}
}

// Validate checks the code against the ledger and computes the discount
// for cartTotalCents. Read-only; Redeem flips the used flag separately
// once checkout succeeds.
func (s *CouponService) Validate(code string, cartTotalCents int64, now time.Time) (*Discount, error) {
	rec, err := s.spinRepo.GetByCouponCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "coupon not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load coupon", err)
	}
	if rec.CouponUsed {
		return nil, apperr.New(apperr.Conflict, "coupon already used")
	}
	if rec.CouponExpiresAt != nil && now.After(*rec.CouponExpiresAt) {
		return nil, apperr.New(apperr.Expired, "coupon expired")
	}
	if rec.Prize == nil {
		return nil, apperr.New(apperr.Internal, "coupon has no prize")
	}
	if rec.Prize.MinPurchaseCents > 0 && cartTotalCents < rec.Prize.MinPurchaseCents {
		return nil, apperr.New(apperr.Invalid, "cart total below coupon minimum").
			WithMeta("min_purchase_cents", rec.Prize.MinPurchaseCents)
	}
	d := computeDiscount(rec.Prize.Payout(), cartTotalCents)
	d.Code = code
	return &d, nil
}

// Redeem idempotently marks the coupon used. It does not re-check expiry
// or eligibility; callers run it right after a successful Validate,
// inside the checkout transaction.
func (s *CouponService) Redeem(tx *gorm.DB, code string) error {
	repo := s.spinRepo
	if tx != nil {
		repo = s.spinRepo.WithTx(tx)
	}
	if err := repo.MarkCouponUsed(code); err != nil {
		return apperr.Wrap(apperr.Internal, "redeem coupon", err)
	}
	return nil
}
