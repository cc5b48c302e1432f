package keygen

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestCouponCodeFormat(t *testing.T) {
	code := CouponCode()
	if !strings.HasPrefix(code, "SPIN-") {
		t.Fatalf("expected SPIN- prefix, got %s", code)
	}
	body := strings.TrimPrefix(code, "SPIN-")
	if len(body) != 8 {
		t.Fatalf("expected 8 code characters, got %d in %s", len(body), code)
	}
	for _, r := range body {
		if strings.ContainsRune("0O1IL", r) {
			t.Fatalf("ambiguous character %q in coupon code %s", r, code)
		}
		if !strings.ContainsRune(couponAlphabet, r) {
			t.Fatalf("character %q outside coupon alphabet in %s", r, code)
		}
	}
}

func TestLicenseKeyFormat(t *testing.T) {
	key := LicenseKey()
	groups := strings.Split(key, "-")
	if len(groups) != 5 {
		t.Fatalf("expected 5 groups, got %d in %s", len(groups), key)
	}
	for _, g := range groups {
		if len(g) != 4 {
			t.Fatalf("expected group of 4, got %q in %s", g, key)
		}
		for _, r := range g {
			if !strings.ContainsRune(licenseAlphabet, r) {
				t.Fatalf("character %q outside license alphabet in %s", r, key)
			}
		}
	}
}

func TestLicenseKeyVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := LicenseKey()
		if seen[k] {
			t.Fatalf("duplicate license key after %d draws: %s", i, k)
		}
		seen[k] = true
	}
}

func TestOrderNumberFormat(t *testing.T) {
	now := time.Unix(1700000000, 0)
	num := OrderNumber(now)
	parts := strings.Split(num, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d in %s", len(parts), num)
	}
	if parts[0] != "SC" {
		t.Fatalf("expected SC prefix, got %s", parts[0])
	}
	ts, err := strconv.ParseInt(parts[1], 36, 64)
	if err != nil {
		t.Fatalf("timestamp part not base36: %v", err)
	}
	if ts != now.Unix() {
		t.Fatalf("expected timestamp %d, got %d", now.Unix(), ts)
	}
	if len(parts[2]) != 4 {
		t.Fatalf("expected 4 random characters, got %q", parts[2])
	}
}
