package repository

import (
	"time"

	"softcart/internal/domain"
	"softcart/internal/models"

	"gorm.io/gorm"
)

type LicenseRepository struct {
	db *gorm.DB
}

func NewLicenseRepository(db *gorm.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

func (r *LicenseRepository) WithTx(tx *gorm.DB) *LicenseRepository {
	return &LicenseRepository{db: tx}
}

func (r *LicenseRepository) Create(l *models.LicenseKey) error {
	return r.db.Create(l).Error
}

func (r *LicenseRepository) KeyExists(key string) (bool, error) {
	var count int64
	err := r.db.Model(&models.LicenseKey{}).Where("`key` = ?", key).Count(&count).Error
	return count > 0, err
}

func (r *LicenseRepository) GetByKey(key string) (*models.LicenseKey, error) {
	var l models.LicenseKey
	if err := r.db.Preload("Product").Where("`key` = ?", key).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LicenseRepository) ListByUser(userID uint) ([]models.LicenseKey, error) {
	var keys []models.LicenseKey
	err := r.db.Preload("Product").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&keys).Error
	return keys, err
}

func (r *LicenseRepository) ListByOrder(orderID uint) ([]models.LicenseKey, error) {
	var keys []models.LicenseKey
	err := r.db.Where("order_id = ?", orderID).Find(&keys).Error
	return keys, err
}

func (r *LicenseRepository) Update(l *models.LicenseKey) error {
	return r.db.Save(l).Error
}

// ActivateAllForOrder flips every SUSPENDED key of the order to ACTIVE.
// Keys already past SUSPENDED are left alone, which keeps replayed
// payment events from resurrecting revoked licenses.
func (r *LicenseRepository) ActivateAllForOrder(orderID uint) error {
	return r.db.Model(&models.LicenseKey{}).
		Where("order_id = ? AND status = ?", orderID, domain.LicenseSuspended).
		Update("status", domain.LicenseActive).Error
}

// RevokeAllForOrder flips every key of the order to REVOKED.
func (r *LicenseRepository) RevokeAllForOrder(orderID uint) error {
	return r.db.Model(&models.LicenseKey{}).
		Where("order_id = ?", orderID).
		Update("status", domain.LicenseRevoked).Error
}

// ExpireOverdue marks ACTIVE keys past their expiry as EXPIRED. Run
// opportunistically; activation also checks the timestamp directly.
func (r *LicenseRepository) ExpireOverdue(now time.Time) error {
	return r.db.Model(&models.LicenseKey{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.LicenseActive, now).
		Update("status", domain.LicenseExpired).Error
}
