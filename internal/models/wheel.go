package models

import (
	"time"

	"softcart/internal/domain"

	"gorm.io/gorm"
)

// Wheel is a promotional spin-wheel configuration. At most one wheel is
// active system-wide; activation deactivates all others in the same
// transaction.
type Wheel struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:128;not null" json:"name"`
	IsActive          bool           `gorm:"not null;default:false;index" json:"is_active"`
	SpinsPerDay       int            `gorm:"not null;default:1" json:"spins_per_day"`
	CooldownHours     int            `gorm:"not null;default:24" json:"cooldown_hours"`
	PopupEnabled      bool           `gorm:"not null;default:true" json:"popup_enabled"`
	PopupDelaySeconds int            `gorm:"not null;default:5" json:"popup_delay_seconds"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Prizes []Prize `gorm:"foreignKey:WheelID" json:"prizes,omitempty"`
}

func (Wheel) TableName() string { return "wheels" }

func (w *Wheel) Cooldown() time.Duration {
	return time.Duration(w.CooldownHours) * time.Hour
}

// Prize is one slot on a wheel. Value is interpreted per kind: cents for
// DISCOUNT_FIXED and CASHBACK, a whole percentage for DISCOUNT_PERCENT,
// ignored for FREE_SHIPPING and NO_PRIZE.
type Prize struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	WheelID          uint           `gorm:"not null;index" json:"wheel_id"`
	Name             string         `gorm:"size:128;not null" json:"name"`
	Kind             string         `gorm:"size:30;not null" json:"kind"`
	Value            int64          `gorm:"not null;default:0" json:"value"`
	MaxDiscountCents int64          `gorm:"not null;default:0" json:"max_discount_cents"` // 0 = uncapped (percent kind)
	Weight           float64        `gorm:"not null;default:0" json:"weight"`
	TotalQuantity    *int           `json:"total_quantity"` // nil = unlimited
	PerDayLimit      *int           `json:"per_day_limit"`  // nil = unlimited
	WonCount         int            `gorm:"not null;default:0" json:"won_count"`
	ValidDays        int            `gorm:"not null;default:7" json:"valid_days"`
	MinPurchaseCents int64          `gorm:"not null;default:0" json:"min_purchase_cents"`
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`
	DisplayOrder     int            `gorm:"not null;default:0" json:"display_order"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Prize) TableName() string { return "prizes" }

func (p *Prize) IsWinKind() bool { return p.Kind != domain.PrizeNone }

// Exhausted reports whether the total-quantity cap has been reached.
func (p *Prize) Exhausted() bool {
	return p.TotalQuantity != nil && p.WonCount >= *p.TotalQuantity
}

// Payout is the typed reward a prize grants. Discount computation
// type-switches on it instead of re-reading the kind string.
type Payout interface{ isPayout() }

type FixedDiscount struct{ AmountCents int64 }
type PercentDiscount struct {
	Percent  int64
	MaxCents int64 // 0 = uncapped
}
type Cashback struct{ AmountCents int64 }
type FreeShipping struct{}
type NoPrize struct{}

func (FixedDiscount) isPayout()   {}
func (PercentDiscount) isPayout() {}
func (Cashback) isPayout()        {}
func (FreeShipping) isPayout()    {}
func (NoPrize) isPayout()         {}

// Payout decodes the stored kind/value pair once, at the model boundary.
// Unknown kinds decode as NoPrize.
func (p *Prize) Payout() Payout {
	switch p.Kind {
	case domain.PrizeDiscountFixed:
		return FixedDiscount{AmountCents: p.Value}
	case domain.PrizeDiscountPercent:
		return PercentDiscount{Percent: p.Value, MaxCents: p.MaxDiscountCents}
	case domain.PrizeCashback:
		return Cashback{AmountCents: p.Value}
	case domain.PrizeFreeShipping:
		return FreeShipping{}
	default:
		return NoPrize{}
	}
}
