package service

import (
	"errors"
	"log"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"gorm.io/gorm"
)

// WheelService is the admin surface: wheel and prize management plus spin
// history. Customer-facing reads and spins live on SpinService.
type WheelService struct {
	wheelRepo *repository.WheelRepository
	spinRepo  *repository.SpinRepository
}

func NewWheelService(wheelRepo *repository.WheelRepository, spinRepo *repository.SpinRepository) *WheelService {
	return &WheelService{wheelRepo: wheelRepo, spinRepo: spinRepo}
}

type WheelInput struct {
	Name              string `json:"name" binding:"required"`
	SpinsPerDay       int    `json:"spins_per_day" binding:"required,min=1"`
	CooldownHours     int    `json:"cooldown_hours" binding:"min=0"`
	PopupEnabled      *bool  `json:"popup_enabled"`
	PopupDelaySeconds int    `json:"popup_delay_seconds" binding:"min=0"`
}

type PrizeInput struct {
	Name             string  `json:"name" binding:"required"`
	Kind             string  `json:"kind" binding:"required"`
	Value            int64   `json:"value" binding:"min=0"`
	MaxDiscountCents int64   `json:"max_discount_cents" binding:"min=0"`
	Weight           float64 `json:"weight" binding:"min=0"`
	TotalQuantity    *int    `json:"total_quantity"`
	PerDayLimit      *int    `json:"per_day_limit"`
	ValidDays        int     `json:"valid_days" binding:"min=0"`
	MinPurchaseCents int64   `json:"min_purchase_cents" binding:"min=0"`
	IsActive         *bool   `json:"is_active"`
	DisplayOrder     int     `json:"display_order"`
}

func validPrizeKind(kind string) bool {
	switch kind {
	case domain.PrizeDiscountFixed, domain.PrizeDiscountPercent, domain.PrizeCashback,
		domain.PrizeFreeShipping, domain.PrizeNone:
		return true
	}
	return false
}

func (s *WheelService) List() ([]models.Wheel, error) {
	wheels, err := s.wheelRepo.List()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list wheels", err)
	}
	return wheels, nil
}

func (s *WheelService) Get(id uint) (*models.Wheel, error) {
	w, err := s.wheelRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "wheel not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load wheel", err)
	}
	return w, nil
}

func (s *WheelService) Create(in WheelInput) (*models.Wheel, error) {
	w := &models.Wheel{
		Name:              in.Name,
		SpinsPerDay:       in.SpinsPerDay,
		CooldownHours:     in.CooldownHours,
		PopupEnabled:      true,
		PopupDelaySeconds: in.PopupDelaySeconds,
	}
	if in.PopupEnabled != nil {
		w.PopupEnabled = *in.PopupEnabled
	}
	if err := s.wheelRepo.Create(w); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create wheel", err)
	}
	return w, nil
}

func (s *WheelService) Update(id uint, in WheelInput) (*models.Wheel, error) {
	w, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	w.Name = in.Name
	w.SpinsPerDay = in.SpinsPerDay
	w.CooldownHours = in.CooldownHours
	w.PopupDelaySeconds = in.PopupDelaySeconds
	if in.PopupEnabled != nil {
		w.PopupEnabled = *in.PopupEnabled
	}
	if err := s.wheelRepo.Update(w); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update wheel", err)
	}
	return w, nil
}

// Activate makes the wheel the single live one; any previously active
// wheel is deactivated in the same transaction.
func (s *WheelService) Activate(id uint) error {
	if err := s.wheelRepo.Activate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "wheel not found")
		}
		return apperr.Wrap(apperr.Internal, "activate wheel", err)
	}
	log.Printf("[wheel] wheel %d activated", id)
	return nil
}

func (s *WheelService) Deactivate(id uint) error {
	if err := s.wheelRepo.Deactivate(id); err != nil {
		return apperr.Wrap(apperr.Internal, "deactivate wheel", err)
	}
	return nil
}

func (s *WheelService) AddPrize(wheelID uint, in PrizeInput) (*models.Prize, error) {
	if !validPrizeKind(in.Kind) {
		return nil, apperr.Newf(apperr.Invalid, "unknown prize kind %q", in.Kind)
	}
	if _, err := s.Get(wheelID); err != nil {
		return nil, err
	}
	p := &models.Prize{
		WheelID:          wheelID,
		Name:             in.Name,
		Kind:             in.Kind,
		Value:            in.Value,
		MaxDiscountCents: in.MaxDiscountCents,
		Weight:           in.Weight,
		TotalQuantity:    in.TotalQuantity,
		PerDayLimit:      in.PerDayLimit,
		ValidDays:        in.ValidDays,
		MinPurchaseCents: in.MinPurchaseCents,
		IsActive:         true,
		DisplayOrder:     in.DisplayOrder,
	}
	if p.ValidDays == 0 {
		p.ValidDays = 7
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := s.wheelRepo.CreatePrize(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create prize", err)
	}
	return p, nil
}

func (s *WheelService) UpdatePrize(prizeID uint, in PrizeInput) (*models.Prize, error) {
	if !validPrizeKind(in.Kind) {
		return nil, apperr.Newf(apperr.Invalid, "unknown prize kind %q", in.Kind)
	}
	p, err := s.wheelRepo.GetPrize(prizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "prize not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load prize", err)
	}
	p.Name = in.Name
	p.Kind = in.Kind
	p.Value = in.Value
	p.MaxDiscountCents = in.MaxDiscountCents
	p.Weight = in.Weight
	p.TotalQuantity = in.TotalQuantity
	p.PerDayLimit = in.PerDayLimit
	if in.ValidDays > 0 {
		p.ValidDays = in.ValidDays
	}
	p.MinPurchaseCents = in.MinPurchaseCents
	p.DisplayOrder = in.DisplayOrder
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := s.wheelRepo.UpdatePrize(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update prize", err)
	}
	return p, nil
}

func (s *WheelService) DeletePrize(prizeID uint) error {
	if err := s.wheelRepo.DeletePrize(prizeID); err != nil {
		return apperr.Wrap(apperr.Internal, "delete prize", err)
	}
	return nil
}

func (s *WheelService) SpinHistory(wheelID uint, limit, offset int) ([]models.SpinRecord, error) {
	records, err := s.spinRepo.ListByWheel(wheelID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list spins", err)
	}
	return records, nil
}
