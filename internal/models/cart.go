package models

import (
	"time"

	"softcart/internal/domain"
)

// CartItem belongs to either a user or an anonymous session, mirroring the
// spin identity split.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	SessionID *string   `gorm:"size:64;index" json:"session_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string { return "cart_items" }

func (ci *CartItem) SetIdentity(id domain.Identity) {
	switch id.Kind {
	case domain.IdentityUser:
		uid := id.UserID
		ci.UserID = &uid
	case domain.IdentitySession:
		sid := id.SessionID
		ci.SessionID = &sid
	}
}
