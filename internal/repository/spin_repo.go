package repository

import (
	"errors"
	"time"

	"softcart/internal/domain"
	"softcart/internal/models"

	"gorm.io/gorm"
)

type SpinRepository struct {
	db *gorm.DB
}

func NewSpinRepository(db *gorm.DB) *SpinRepository {
	return &SpinRepository{db: db}
}

func (r *SpinRepository) WithTx(tx *gorm.DB) *SpinRepository {
	return &SpinRepository{db: tx}
}

func (r *SpinRepository) Create(rec *models.SpinRecord) error {
	return r.db.Create(rec).Error
}

// identityScope filters by the user or session column. Anonymous
// identities match nothing: they have no ledger to rate-limit against.
func identityScope(db *gorm.DB, id domain.Identity) *gorm.DB {
	switch id.Kind {
	case domain.IdentityUser:
		return db.Where("user_id = ?", id.UserID)
	case domain.IdentitySession:
		return db.Where("session_id = ?", id.SessionID)
	default:
		return db.Where("1 = 0")
	}
}

// LastForIdentity returns the most recent spin for identity on the wheel,
// or nil when there is none.
func (r *SpinRepository) LastForIdentity(wheelID uint, id domain.Identity) (*models.SpinRecord, error) {
	if id.IsAnonymous() {
		return nil, nil
	}
	var rec models.SpinRecord
	err := identityScope(r.db.Where("wheel_id = ?", wheelID), id).
		Order("created_at DESC, id DESC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// CountSince counts identity's spins on the wheel at or after since.
func (r *SpinRepository) CountSince(wheelID uint, id domain.Identity, since time.Time) (int, error) {
	if id.IsAnonymous() {
		return 0, nil
	}
	var count int64
	err := identityScope(r.db.Model(&models.SpinRecord{}).Where("wheel_id = ?", wheelID), id).
		Where("created_at >= ?", since).Count(&count).Error
	return int(count), err
}

// PrizeWinsSince returns per-prize win counts on the wheel at or after
// since, for per-day prize caps.
func (r *SpinRepository) PrizeWinsSince(wheelID uint, since time.Time) (map[uint]int, error) {
	type row struct {
		PrizeID uint
		N       int
	}
	var rows []row
	err := r.db.Model(&models.SpinRecord{}).
		Select("prize_id, COUNT(*) AS n").
		Where("wheel_id = ? AND is_win = ? AND created_at >= ? AND prize_id IS NOT NULL", wheelID, true, since).
		Group("prize_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.PrizeID] = r.N
	}
	return counts, nil
}

func (r *SpinRepository) GetByCouponCode(code string) (*models.SpinRecord, error) {
	var rec models.SpinRecord
	err := r.db.Preload("Prize").Where("coupon_code = ?", code).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkCouponUsed idempotently sets the used flag.
func (r *SpinRepository) MarkCouponUsed(code string) error {
	return r.db.Model(&models.SpinRecord{}).
		Where("coupon_code = ?", code).
		Update("coupon_used", true).Error
}

// ListByWheel returns the newest spins for a wheel, paginated, for the
// admin history view.
func (r *SpinRepository) ListByWheel(wheelID uint, limit, offset int) ([]models.SpinRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var recs []models.SpinRecord
	err := r.db.Preload("Prize").Where("wheel_id = ?", wheelID).
		Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&recs).Error
	return recs, err
}
