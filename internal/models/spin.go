package models

import (
	"time"

	"softcart/internal/domain"
)

// SpinRecord is one row of the append-only spin ledger. Cooldown, daily
// cap and per-prize exhaustion counts are all derived from it. Rows are
// never updated after insert except for the coupon-used flag.
type SpinRecord struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WheelID         uint       `gorm:"not null;index" json:"wheel_id"`
	PrizeID         *uint      `gorm:"index" json:"prize_id"` // nil = no-win spin
	UserID          *uint      `gorm:"index:idx_spins_user_wheel" json:"user_id"`
	SessionID       *string    `gorm:"size:64;index:idx_spins_session_wheel" json:"session_id"`
	IsWin           bool       `gorm:"not null;default:false" json:"is_win"`
	CouponCode      *string    `gorm:"uniqueIndex;size:16" json:"coupon_code"`
	CouponExpiresAt *time.Time `json:"coupon_expires_at"`
	CouponUsed      bool       `gorm:"not null;default:false" json:"coupon_used"`
	IP              string     `gorm:"size:45" json:"-"`
	UserAgent       string     `gorm:"size:512" json:"-"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`

	Prize *Prize `gorm:"foreignKey:PrizeID" json:"prize,omitempty"`
}

func (SpinRecord) TableName() string { return "spin_records" }

// SetIdentity stores the mutually exclusive identity columns. Anonymous
// spins leave both nil.
func (s *SpinRecord) SetIdentity(id domain.Identity) {
	switch id.Kind {
	case domain.IdentityUser:
		uid := id.UserID
		s.UserID = &uid
	case domain.IdentitySession:
		sid := id.SessionID
		s.SessionID = &sid
	}
}
