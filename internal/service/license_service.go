package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"gorm.io/gorm"
)

type LicenseService struct {
	licenseRepo *repository.LicenseRepository
	auditRepo   *repository.AuditLogRepository
}

func NewLicenseService(licenseRepo *repository.LicenseRepository, auditRepo *repository.AuditLogRepository) *LicenseService {
	return &LicenseService{licenseRepo: licenseRepo, auditRepo: auditRepo}
}

func (s *LicenseService) ListForUser(userID uint) ([]models.LicenseKey, error) {
	keys, err := s.licenseRepo.ListByUser(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list licenses", err)
	}
	return keys, nil
}

// Activate binds a machine to a license key. Re-activating an already
// bound machine succeeds without consuming a slot, so reinstalls on the
// same machine are free.
func (s *LicenseService) Activate(userID uint, key, machineID, ip, userAgent string) (*models.LicenseKey, error) {
	machineID = strings.TrimSpace(machineID)
	if machineID == "" || len(machineID) > 128 {
		return nil, apperr.New(apperr.Invalid, "machine_id required")
	}
	lic, err := s.licenseRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "license key not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load license", err)
	}
	if lic.UserID != userID {
		// deny without confirming the key exists
		return nil, apperr.New(apperr.NotFound, "license key not found")
	}
	switch lic.Status {
	case domain.LicenseSuspended:
		return nil, apperr.New(apperr.Conflict, "license not active yet; complete payment first")
	case domain.LicenseRevoked:
		return nil, apperr.New(apperr.Conflict, "license has been revoked")
	case domain.LicenseExpired:
		return nil, apperr.New(apperr.Expired, "license has expired")
	}
	now := time.Now()
	if lic.ExpiresAt != nil && now.After(*lic.ExpiresAt) {
		lic.Status = domain.LicenseExpired
		if err := s.licenseRepo.Update(lic); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "expire license", err)
		}
		return nil, apperr.New(apperr.Expired, "license has expired")
	}
	if lic.IsBound(machineID) {
		return lic, nil
	}
	if lic.ActivationCount >= lic.ActivationLimit {
		return nil, apperr.New(apperr.Conflict, "activation limit reached").
			WithMeta("activation_limit", lic.ActivationLimit)
	}
	lic.BindMachine(machineID)
	if err := s.licenseRepo.Update(lic); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update license", err)
	}
	_ = s.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     "license_activate",
		Resource:   "license",
		ResourceID: lic.Key,
		IP:         ip,
		UserAgent:  userAgent,
		Metadata:   fmt.Sprintf(`{"activation_count":%d}`, lic.ActivationCount),
	})
	log.Printf("[license] key %s activated on machine (count %d/%d)", lic.Key, lic.ActivationCount, lic.ActivationLimit)
	return lic, nil
}

// ExpireOverdue sweeps ACTIVE licenses past their expiry. Run periodically
// from main.
func (s *LicenseService) ExpireOverdue() {
	if err := s.licenseRepo.ExpireOverdue(time.Now()); err != nil {
		log.Printf("[license] expiry sweep failed: %v", err)
	}
}
