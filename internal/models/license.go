package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// LicenseKey is an activation credential for one unit of a digital
// product. Machines holds the bound machine identifiers as a JSON array;
// use MachineIDs/BindMachine rather than touching the column.
type LicenseKey struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Key             string         `gorm:"uniqueIndex;size:32;not null" json:"key"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	Status          string         `gorm:"size:20;not null;index" json:"status"`
	ActivationCount int            `gorm:"not null;default:0" json:"activation_count"`
	ActivationLimit int            `gorm:"not null;default:3" json:"activation_limit"`
	ExpiresAt       *time.Time     `json:"expires_at"`
	Machines        string         `gorm:"type:text" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (LicenseKey) TableName() string { return "license_keys" }

func (l *LicenseKey) MachineIDs() []string {
	if l.Machines == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(l.Machines), &ids); err != nil {
		return nil
	}
	return ids
}

// IsBound reports whether machineID is already in the bound set.
func (l *LicenseKey) IsBound(machineID string) bool {
	for _, id := range l.MachineIDs() {
		if id == machineID {
			return true
		}
	}
	return false
}

// BindMachine appends machineID to the bound set and bumps the counter.
// Caller checks the activation limit first.
func (l *LicenseKey) BindMachine(machineID string) {
	ids := append(l.MachineIDs(), machineID)
	data, _ := json.Marshal(ids)
	l.Machines = string(data)
	l.ActivationCount = len(ids)
}
