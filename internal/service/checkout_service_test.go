package service

import (
	"testing"
)

func TestComputeTotalsPhysical(t *testing.T) {
	// 10000 subtotal, 500 discount, 21% tax, flat 499 shipping
	tot := computeTotals(10000, 500, 2100, 499, true, false)
	if tot.Tax != 1995 {
		t.Fatalf("tax on 9500 at 21%% should be 1995, got %d", tot.Tax)
	}
	if tot.Shipping != 499 {
		t.Fatalf("expected flat shipping 499, got %d", tot.Shipping)
	}
	want := int64(10000 - 500 + 1995 + 499)
	if tot.Total != want {
		t.Fatalf("expected total %d, got %d", want, tot.Total)
	}
}

func TestComputeTotalsDigitalNoShipping(t *testing.T) {
	tot := computeTotals(5000, 0, 2100, 499, false, false)
	if tot.Shipping != 0 {
		t.Fatalf("digital-only orders ship nothing, got %d", tot.Shipping)
	}
	if tot.Total != 5000+1050 {
		t.Fatalf("expected 6050, got %d", tot.Total)
	}
}

func TestComputeTotalsFreeShippingCoupon(t *testing.T) {
	tot := computeTotals(5000, 0, 0, 499, true, true)
	if tot.Shipping != 0 {
		t.Fatalf("free shipping coupon should zero the line, got %d", tot.Shipping)
	}
}

func TestComputeTotalsDiscountClamped(t *testing.T) {
	// a coupon larger than the cart never drives the total negative
	tot := computeTotals(1000, 5000, 2100, 0, false, false)
	if tot.Discount != 1000 {
		t.Fatalf("discount should clamp to subtotal, got %d", tot.Discount)
	}
	if tot.Total != 0 {
		t.Fatalf("expected zero total, got %d", tot.Total)
	}
}

func TestComputeTotalsInvariant(t *testing.T) {
	cases := []struct {
		subtotal, discount int64
		physical, freeShip bool
	}{
		{10000, 0, true, false},
		{10000, 2500, false, false},
		{999, 999, true, true},
		{123457, 10, true, false},
	}
	for _, c := range cases {
		tot := computeTotals(c.subtotal, c.discount, 2100, 499, c.physical, c.freeShip)
		if tot.Total != tot.Subtotal-tot.Discount+tot.Tax+tot.Shipping {
			t.Fatalf("invariant broken for %+v: %+v", c, tot)
		}
		if tot.Total < 0 {
			t.Fatalf("negative total for %+v: %+v", c, tot)
		}
	}
}
