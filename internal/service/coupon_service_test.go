package service

import (
	"testing"

	"softcart/internal/domain"
	"softcart/internal/models"
)

func TestComputeDiscountFixed(t *testing.T) {
	d := computeDiscount(models.FixedDiscount{AmountCents: 500}, 10000)
	if d.Type != domain.DiscountTypeFixed || d.AmountCents != 500 {
		t.Fatalf("unexpected discount %+v", d)
	}
}

func TestComputeDiscountPercent(t *testing.T) {
	d := computeDiscount(models.PercentDiscount{Percent: 10}, 10000)
	if d.AmountCents != 1000 {
		t.Fatalf("10%% of 10000 should be 1000, got %d", d.AmountCents)
	}
}

func TestComputeDiscountPercentCapped(t *testing.T) {
	d := computeDiscount(models.PercentDiscount{Percent: 10, MaxCents: 500}, 10000)
	if d.AmountCents != 500 {
		t.Fatalf("cap should clamp to 500, got %d", d.AmountCents)
	}
	// below the cap the raw percentage applies
	d = computeDiscount(models.PercentDiscount{Percent: 10, MaxCents: 500}, 2000)
	if d.AmountCents != 200 {
		t.Fatalf("expected 200, got %d", d.AmountCents)
	}
}

func TestComputeDiscountPercentTruncates(t *testing.T) {
	// integer cents; 10% of 99 truncates to 9
	d := computeDiscount(models.PercentDiscount{Percent: 10}, 99)
	if d.AmountCents != 9 {
		t.Fatalf("expected truncation to 9, got %d", d.AmountCents)
	}
}

func TestComputeDiscountCashback(t *testing.T) {
	d := computeDiscount(models.Cashback{AmountCents: 300}, 1000)
	if d.Type != domain.DiscountTypeCashback || d.AmountCents != 300 {
		t.Fatalf("unexpected discount %+v", d)
	}
}

func TestComputeDiscountFreeShipping(t *testing.T) {
	d := computeDiscount(models.FreeShipping{}, 1000)
	if !d.FreeShipping || d.AmountCents != 0 {
		t.Fatalf("free shipping should carry no amount, got %+v", d)
	}
}

func TestComputeDiscountNoPrize(t *testing.T) {
	d := computeDiscount(models.NoPrize{}, 1000)
	if d.AmountCents != 0 || d.FreeShipping {
		t.Fatalf("no-prize payout should discount nothing, got %+v", d)
	}
}

func TestPrizePayoutDecoding(t *testing.T) {
	p := models.Prize{Kind: domain.PrizeDiscountPercent, Value: 15, MaxDiscountCents: 2000}
	payout, ok := p.Payout().(models.PercentDiscount)
	if !ok {
		t.Fatalf("expected PercentDiscount, got %T", p.Payout())
	}
	if payout.Percent != 15 || payout.MaxCents != 2000 {
		t.Fatalf("unexpected payout %+v", payout)
	}
	unknown := models.Prize{Kind: "LEGACY_KIND"}
	if _, ok := unknown.Payout().(models.NoPrize); !ok {
		t.Fatalf("unknown kinds should decode as NoPrize, got %T", unknown.Payout())
	}
}
