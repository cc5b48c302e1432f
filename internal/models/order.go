package models

import (
	"time"

	"gorm.io/gorm"
)

// Order invariant: TotalCents = SubtotalCents - DiscountCents + TaxCents +
// ShippingCents. Totals are computed server-side at checkout; nothing
// price-shaped is trusted from the client.
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderNumber   string         `gorm:"uniqueIndex;size:32;not null" json:"order_number"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Status        string         `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus string         `gorm:"size:20;not null;index" json:"payment_status"`
	SubtotalCents int64          `gorm:"not null" json:"subtotal_cents"`
	DiscountCents int64          `gorm:"not null;default:0" json:"discount_cents"`
	TaxCents      int64          `gorm:"not null;default:0" json:"tax_cents"`
	ShippingCents int64          `gorm:"not null;default:0" json:"shipping_cents"`
	TotalCents    int64          `gorm:"not null" json:"total_cents"`
	Currency      string         `gorm:"size:3;not null" json:"currency"`
	CouponCode    *string        `gorm:"size:16;index" json:"coupon_code"`
	// Required iff the order contains a physical item.
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  User        `gorm:"foreignKey:UserID" json:"-"`
}

func (Order) TableName() string { return "orders" }

// HasPhysical reports whether any line item needs shipping.
func (o *Order) HasPhysical() bool {
	for _, it := range o.Items {
		if !it.IsDigital {
			return true
		}
	}
	return false
}

// OrderItem snapshots the product name and unit price at checkout time so
// later catalog edits do not rewrite history.
type OrderItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderID        uint   `gorm:"not null;index" json:"order_id"`
	ProductID      uint   `gorm:"not null;index" json:"product_id"`
	ProductName    string `gorm:"size:255;not null" json:"product_name"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	IsDigital      bool   `gorm:"not null;default:false" json:"is_digital"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string { return "order_items" }
