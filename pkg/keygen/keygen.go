// Package keygen generates the human-facing codes the storefront hands
// out: coupon codes, license keys and order numbers. All randomness comes
// from crypto/rand.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	// couponAlphabet omits glyphs that read ambiguously (0/O, 1/I/L).
	couponAlphabet  = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	licenseAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36Alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"

	CouponPrefix      = "SPIN-"
	couponCodeLength  = 8
	licenseGroupCount = 5
	licenseGroupSize  = 4
	orderNumberPrefix = "SC"
)

func randomString(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; nothing sensible to return in that case.
			panic(fmt.Sprintf("keygen: %v", err))
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}

// CouponCode returns SPIN-XXXXXXXX with X from the unambiguous alphabet.
// Uniqueness is not checked here; the unique index on the spin ledger
// catches the (negligible) collision at insert time.
func CouponCode() string {
	return CouponPrefix + randomString(couponAlphabet, couponCodeLength)
}

// LicenseKey returns XXXX-XXXX-XXXX-XXXX-XXXX. Callers must retry against
// the store until the key is unused; the format carries no uniqueness
// guarantee of its own.
func LicenseKey() string {
	groups := make([]string, licenseGroupCount)
	for i := range groups {
		groups[i] = randomString(licenseAlphabet, licenseGroupSize)
	}
	return strings.Join(groups, "-")
}

// OrderNumber returns SC-<base36 unix seconds>-<4 base36 random>.
func OrderNumber(now time.Time) string {
	return orderNumberPrefix + "-" + strconv.FormatInt(now.Unix(), 36) + "-" + randomString(base36Alphabet, 4)
}
