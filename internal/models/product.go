package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Digital products ship as license keys; the
// license fields below only apply when IsDigital is set.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	PriceCents   int64          `gorm:"not null" json:"price_cents"`
	Stock        int            `gorm:"not null;default:0" json:"stock"` // physical inventory; ignored for digital
	IsDigital    bool           `gorm:"not null;default:false" json:"is_digital"`
	IsActive     bool           `gorm:"not null;default:true;index" json:"is_active"`
	ImageURL     string         `gorm:"size:512" json:"image_url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`

	LicenseActivationLimit int `gorm:"not null;default:3" json:"license_activation_limit"`
	LicenseValidityDays    int `gorm:"not null;default:365" json:"license_validity_days"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }
