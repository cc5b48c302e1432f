package repository

import (
	"errors"

	"softcart/internal/models"

	"gorm.io/gorm"
)

var ErrPrizeExhausted = errors.New("prize quantity exhausted")

type WheelRepository struct {
	db *gorm.DB
}

func NewWheelRepository(db *gorm.DB) *WheelRepository {
	return &WheelRepository{db: db}
}

// WithTx returns a repository bound to tx so callers can compose wheel
// updates into larger transactions.
func (r *WheelRepository) WithTx(tx *gorm.DB) *WheelRepository {
	return &WheelRepository{db: tx}
}

// GetActive returns the single active wheel with its active prizes in
// display order, or gorm.ErrRecordNotFound.
func (r *WheelRepository) GetActive() (*models.Wheel, error) {
	var w models.Wheel
	err := r.db.Where("is_active = ?", true).
		Preload("Prizes", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order ASC, id ASC")
		}).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WheelRepository) GetByID(id uint) (*models.Wheel, error) {
	var w models.Wheel
	err := r.db.Preload("Prizes", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC, id ASC")
	}).First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WheelRepository) List() ([]models.Wheel, error) {
	var wheels []models.Wheel
	if err := r.db.Order("id DESC").Find(&wheels).Error; err != nil {
		return nil, err
	}
	return wheels, nil
}

func (r *WheelRepository) Create(w *models.Wheel) error {
	return r.db.Create(w).Error
}

func (r *WheelRepository) Update(w *models.Wheel) error {
	return r.db.Save(w).Error
}

// Activate flips wheel id on and every other wheel off in one
// transaction, keeping the at-most-one-active invariant.
func (r *WheelRepository) Activate(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Wheel{}).Where("id <> ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Wheel{}).Where("id = ?", id).Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *WheelRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Wheel{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *WheelRepository) GetPrize(id uint) (*models.Prize, error) {
	var p models.Prize
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *WheelRepository) CreatePrize(p *models.Prize) error {
	return r.db.Create(p).Error
}

func (r *WheelRepository) UpdatePrize(p *models.Prize) error {
	return r.db.Save(p).Error
}

func (r *WheelRepository) DeletePrize(id uint) error {
	return r.db.Delete(&models.Prize{}, id).Error
}

// IncrementWonCount bumps won_count with a conditional UPDATE so the
// quantity cap can never be overshot under concurrent spins. Returns
// ErrPrizeExhausted when the cap was already reached.
func (r *WheelRepository) IncrementWonCount(prizeID uint) error {
	res := r.db.Model(&models.Prize{}).
		Where("id = ? AND (total_quantity IS NULL OR won_count < total_quantity)", prizeID).
		Update("won_count", gorm.Expr("won_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPrizeExhausted
	}
	return nil
}
