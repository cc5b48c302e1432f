package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"
	"softcart/internal/ws"
	"softcart/pkg/keygen"

	"gorm.io/gorm"
)

// SpinService runs the spin-wheel promotion: eligibility, the weighted
// draw, the append-only ledger and coupon minting.
type SpinService struct {
	db        *gorm.DB
	wheelRepo *repository.WheelRepository
	spinRepo  *repository.SpinRepository
	auditRepo *repository.AuditLogRepository
	winners   *ws.WinnerHub
}

func NewSpinService(
	db *gorm.DB,
	wheelRepo *repository.WheelRepository,
	spinRepo *repository.SpinRepository,
	auditRepo *repository.AuditLogRepository,
	winners *ws.WinnerHub,
) *SpinService {
	return &SpinService{
		db:        db,
		wheelRepo: wheelRepo,
		spinRepo:  spinRepo,
		auditRepo: auditRepo,
		winners:   winners,
	}
}

// Eligibility is the read-only answer to "may this identity spin now".
type Eligibility struct {
	CanSpin          bool   `json:"can_spin"`
	Reason           string `json:"reason,omitempty"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	SpinsRemaining   int    `json:"spins_remaining"`
	ShowPopup        bool   `json:"show_popup"`
}

// SpinResult is what one draw produced.
type SpinResult struct {
	IsWin           bool           `json:"is_win"`
	Prize           *models.Prize  `json:"prize,omitempty"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	CouponExpiresAt *time.Time     `json:"coupon_expires_at,omitempty"`
	Record          *models.SpinRecord `json:"-"`
}

// startOfDay truncates to the server's local calendar day; the daily cap
// resets at local midnight.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// evaluateEligibility applies the rules in order: daily cap first, then
// cooldown. An anonymous identity reaches this with no last record and a
// zero daily count, so it is always eligible; that is deliberate policy
// for first-time visitors, not an oversight.
func evaluateEligibility(wheel *models.Wheel, last *models.SpinRecord, spinsToday int, now time.Time) Eligibility {
	e := Eligibility{ShowPopup: wheel.PopupEnabled}
	e.SpinsRemaining = wheel.SpinsPerDay - spinsToday
	if e.SpinsRemaining < 0 {
		e.SpinsRemaining = 0
	}
	if e.SpinsRemaining == 0 {
		e.Reason = "daily spin limit reached"
		e.ShowPopup = false
		return e
	}
	if last != nil {
		elapsed := now.Sub(last.CreatedAt)
		if elapsed < wheel.Cooldown() {
			e.Reason = "cooldown active"
			e.RemainingSeconds = int64((wheel.Cooldown() - elapsed).Seconds())
			e.ShowPopup = false
			return e
		}
	}
	e.CanSpin = true
	return e
}

// exhausted reports whether the prize can no longer be won today: total
// quantity spent or the per-day cap reached.
func exhausted(p *models.Prize, wonToday map[uint]int) bool {
	if p.Exhausted() {
		return true
	}
	if p.PerDayLimit != nil && wonToday[p.ID] >= *p.PerDayLimit {
		return true
	}
	return false
}

// selectPrize walks the cumulative weight sum and picks the first prize
// whose running sum reaches r, skipping exhausted prizes and carrying on
// down the list. The skipped prize's probability mass lands on whichever
// prize comes next in display order rather than being redistributed
// proportionally; that uneven donation is a documented product decision.
// Returns nil when every candidate at or past the drawn point is
// exhausted; the caller falls back via fallbackPrize.
func selectPrize(prizes []models.Prize, wonToday map[uint]int, r float64) *models.Prize {
	var acc float64
	matched := false
	for i := range prizes {
		p := &prizes[i]
		if !matched {
			acc += p.Weight
			if acc < r {
				continue
			}
			matched = true
		}
		if exhausted(p, wonToday) {
			continue
		}
		return p
	}
	return nil
}

// fallbackPrize is the designated NO_PRIZE entry, or the first prize in
// list order when none is tagged.
func fallbackPrize(prizes []models.Prize) *models.Prize {
	for i := range prizes {
		if prizes[i].Kind == domain.PrizeNone {
			return &prizes[i]
		}
	}
	if len(prizes) > 0 {
		return &prizes[0]
	}
	return nil
}

func totalWeight(prizes []models.Prize) float64 {
	var t float64
	for i := range prizes {
		t += prizes[i].Weight
	}
	return t
}

// Status answers the storefront widget: current eligibility plus popup
// config. Read-only.
func (s *SpinService) Status(id domain.Identity, now time.Time) (*Eligibility, *models.Wheel, error) {
	wheel, err := s.wheelRepo.GetActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Eligibility{Reason: "no active wheel"}, nil, nil
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "load active wheel", err)
	}
	last, err := s.spinRepo.LastForIdentity(wheel.ID, id)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "load last spin", err)
	}
	spinsToday, err := s.spinRepo.CountSince(wheel.ID, id, startOfDay(now))
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "count today's spins", err)
	}
	elig := evaluateEligibility(wheel, last, spinsToday, now)
	return &elig, wheel, nil
}

// Spin performs one draw for the identity and appends it to the ledger.
// The won-count increment and the ledger insert commit together; the
// record's timestamp is the insert time, never client-supplied.
func (s *SpinService) Spin(id domain.Identity, ip, userAgent string) (*SpinResult, error) {
	now := time.Now()
	wheel, err := s.wheelRepo.GetActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "no active wheel")
		}
		return nil, apperr.Wrap(apperr.Internal, "load active wheel", err)
	}
	last, err := s.spinRepo.LastForIdentity(wheel.ID, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "load last spin", err)
	}
	spinsToday, err := s.spinRepo.CountSince(wheel.ID, id, startOfDay(now))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "count today's spins", err)
	}
	elig := evaluateEligibility(wheel, last, spinsToday, now)
	if !elig.CanSpin {
		return nil, apperr.New(apperr.Conflict, elig.Reason).
			WithMeta("remaining_seconds", elig.RemainingSeconds).
			WithMeta("spins_remaining", elig.SpinsRemaining)
	}

	wonToday, err := s.spinRepo.PrizeWinsSince(wheel.ID, startOfDay(now))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "count prize wins", err)
	}
	prizes := wheel.Prizes
	if len(prizes) == 0 {
		return nil, apperr.New(apperr.Conflict, "wheel has no prizes")
	}
	r := rand.Float64() * totalWeight(prizes)
	selected := selectPrize(prizes, wonToday, r)
	if selected == nil {
		selected = fallbackPrize(prizes)
	}

	result := &SpinResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := &models.SpinRecord{
			WheelID:   wheel.ID,
			IP:        ip,
			UserAgent: userAgent,
		}
		rec.SetIdentity(id)

		prize := selected
		if prize != nil && prize.IsWinKind() {
			if prize.TotalQuantity != nil {
				// Conditional increment; a concurrent spin may have taken
				// the last unit between our read and here.
				if err := s.wheelRepo.WithTx(tx).IncrementWonCount(prize.ID); err != nil {
					if errors.Is(err, repository.ErrPrizeExhausted) {
						prize = nil
					} else {
						return err
					}
				}
			} else if err := s.wheelRepo.WithTx(tx).IncrementWonCount(prize.ID); err != nil {
				return err
			}
		}

		if prize != nil && prize.IsWinKind() {
			code := keygen.CouponCode()
			expiry := now.AddDate(0, 0, prize.ValidDays)
			pid := prize.ID
			rec.PrizeID = &pid
			rec.IsWin = true
			rec.CouponCode = &code
			rec.CouponExpiresAt = &expiry
			result.IsWin = true
			result.Prize = prize
			result.CouponCode = code
			result.CouponExpiresAt = &expiry
		} else if prize != nil {
			pid := prize.ID
			rec.PrizeID = &pid
			result.Prize = prize
		}
		if err := s.spinRepo.WithTx(tx).Create(rec); err != nil {
			return err
		}
		result.Record = rec
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "record spin", err)
	}

	var actor *uint
	if id.Kind == domain.IdentityUser {
		uid := id.UserID
		actor = &uid
	}
	_ = s.auditRepo.Create(&models.AuditLog{
		UserID:     actor,
		Action:     "spin",
		Resource:   "wheel",
		ResourceID: fmt.Sprintf("%d", wheel.ID),
		IP:         ip,
		UserAgent:  userAgent,
		Metadata:   fmt.Sprintf(`{"identity":%q,"win":%t}`, id.Key(), result.IsWin),
	})
	if result.IsWin && s.winners != nil {
		s.winners.Announce(id.Key(), result.Prize.Name)
	}
	log.Printf("[spin] wheel=%d identity=%s win=%t", wheel.ID, id.Key(), result.IsWin)
	return result, nil
}
