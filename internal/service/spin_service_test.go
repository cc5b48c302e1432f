package service

import (
	"math/rand"
	"testing"
	"time"

	"softcart/internal/domain"
	"softcart/internal/models"
)

func intPtr(n int) *int { return &n }

func testWheel() *models.Wheel {
	return &models.Wheel{
		ID:            1,
		SpinsPerDay:   3,
		CooldownHours: 1,
		PopupEnabled:  true,
	}
}

func TestEvaluateEligibilityFirstSpin(t *testing.T) {
	now := time.Now()
	e := evaluateEligibility(testWheel(), nil, 0, now)
	if !e.CanSpin {
		t.Fatalf("first spin should be eligible, got reason %q", e.Reason)
	}
	if e.SpinsRemaining != 3 {
		t.Fatalf("expected 3 spins remaining, got %d", e.SpinsRemaining)
	}
	if !e.ShowPopup {
		t.Fatalf("popup should show when eligible")
	}
}

func TestEvaluateEligibilityDailyCap(t *testing.T) {
	now := time.Now()
	last := &models.SpinRecord{CreatedAt: now.Add(-2 * time.Hour)}
	e := evaluateEligibility(testWheel(), last, 3, now)
	if e.CanSpin {
		t.Fatalf("should be blocked at daily cap")
	}
	if e.Reason != "daily spin limit reached" {
		t.Fatalf("unexpected reason %q", e.Reason)
	}
	if e.ShowPopup {
		t.Fatalf("popup should be suppressed when blocked")
	}
}

func TestEvaluateEligibilityCooldown(t *testing.T) {
	now := time.Now()
	last := &models.SpinRecord{CreatedAt: now.Add(-30 * time.Minute)}
	e := evaluateEligibility(testWheel(), last, 1, now)
	if e.CanSpin {
		t.Fatalf("should be blocked inside cooldown")
	}
	if e.Reason != "cooldown active" {
		t.Fatalf("unexpected reason %q", e.Reason)
	}
	// 30 minutes of a 1h cooldown remain
	if e.RemainingSeconds < 1790 || e.RemainingSeconds > 1800 {
		t.Fatalf("expected ~1800s remaining, got %d", e.RemainingSeconds)
	}
}

func TestEvaluateEligibilityCooldownElapsed(t *testing.T) {
	now := time.Now()
	last := &models.SpinRecord{CreatedAt: now.Add(-61 * time.Minute)}
	e := evaluateEligibility(testWheel(), last, 1, now)
	if !e.CanSpin {
		t.Fatalf("cooldown elapsed, should be eligible; reason %q", e.Reason)
	}
	if e.SpinsRemaining != 2 {
		t.Fatalf("expected 2 spins remaining, got %d", e.SpinsRemaining)
	}
}

func TestEvaluateEligibilityCooldownBoundary(t *testing.T) {
	wheel := &models.Wheel{SpinsPerDay: 5, CooldownHours: 24}
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	last := &models.SpinRecord{CreatedAt: t0}
	if e := evaluateEligibility(wheel, last, 1, t0.Add(time.Hour)); e.CanSpin {
		t.Fatalf("one hour into a 24h cooldown must be ineligible")
	}
	if e := evaluateEligibility(wheel, last, 1, t0.Add(24*time.Hour+time.Second)); !e.CanSpin {
		t.Fatalf("one second past the cooldown must be eligible, reason %q", e.Reason)
	}
}

func TestEvaluateEligibilityCapBeatsCooldown(t *testing.T) {
	// Both rules violated: the daily cap message wins.
	now := time.Now()
	last := &models.SpinRecord{CreatedAt: now.Add(-time.Minute)}
	e := evaluateEligibility(testWheel(), last, 5, now)
	if e.Reason != "daily spin limit reached" {
		t.Fatalf("daily cap should be reported first, got %q", e.Reason)
	}
}

func testPrizes() []models.Prize {
	return []models.Prize{
		{ID: 1, Kind: domain.PrizeDiscountFixed, Value: 500, Weight: 50},
		{ID: 2, Kind: domain.PrizeDiscountPercent, Value: 10, Weight: 30},
		{ID: 3, Kind: domain.PrizeNone, Weight: 20},
	}
}

func TestSelectPrizePicksByCumulativeWeight(t *testing.T) {
	prizes := testPrizes()
	none := map[uint]int{}
	cases := []struct {
		r    float64
		want uint
	}{
		{0, 1},
		{49.9, 1},
		{50.1, 2},
		{79.9, 2},
		{80.1, 3},
		{100, 3},
	}
	for _, c := range cases {
		got := selectPrize(prizes, none, c.r)
		if got == nil || got.ID != c.want {
			t.Fatalf("r=%v: expected prize %d, got %+v", c.r, c.want, got)
		}
	}
}

func TestSelectPrizeSkipsExhaustedToNext(t *testing.T) {
	prizes := testPrizes()
	qty := 10
	prizes[0].TotalQuantity = &qty
	prizes[0].WonCount = 10
	// A draw landing on the exhausted first prize falls through to the
	// second; the first prize's mass is donated, not redistributed.
	got := selectPrize(prizes, map[uint]int{}, 25)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected fallthrough to prize 2, got %+v", got)
	}
}

func TestSelectPrizePerDayLimit(t *testing.T) {
	prizes := testPrizes()
	prizes[0].PerDayLimit = intPtr(2)
	got := selectPrize(prizes, map[uint]int{1: 2}, 25)
	if got == nil || got.ID != 2 {
		t.Fatalf("per-day limited prize should be skipped, got %+v", got)
	}
}

func TestSelectPrizeAllExhaustedPastDraw(t *testing.T) {
	prizes := []models.Prize{
		{ID: 1, Kind: domain.PrizeDiscountFixed, Weight: 50},
		{ID: 2, Kind: domain.PrizeCashback, Weight: 50, TotalQuantity: intPtr(1), WonCount: 1},
	}
	if got := selectPrize(prizes, map[uint]int{}, 60); got != nil {
		t.Fatalf("expected nil when all candidates past the draw are exhausted, got %+v", got)
	}
}

func TestFallbackPrize(t *testing.T) {
	prizes := testPrizes()
	if got := fallbackPrize(prizes); got == nil || got.ID != 3 {
		t.Fatalf("expected the NO_PRIZE entry, got %+v", got)
	}
	noLoser := prizes[:2]
	if got := fallbackPrize(noLoser); got == nil || got.ID != 1 {
		t.Fatalf("expected first prize fallback, got %+v", got)
	}
	if got := fallbackPrize(nil); got != nil {
		t.Fatalf("expected nil for empty wheel, got %+v", got)
	}
}

func TestSelectPrizeDistribution(t *testing.T) {
	prizes := testPrizes()
	total := totalWeight(prizes)
	rng := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := map[uint]int{}
	for i := 0; i < draws; i++ {
		p := selectPrize(prizes, map[uint]int{}, rng.Float64()*total)
		if p == nil {
			t.Fatalf("draw %d returned nil with no exhaustion", i)
		}
		counts[p.ID]++
	}
	// expected 50/30/20 within 1.5 points
	expect := map[uint]float64{1: 0.50, 2: 0.30, 3: 0.20}
	for id, want := range expect {
		got := float64(counts[id]) / draws
		if got < want-0.015 || got > want+0.015 {
			t.Fatalf("prize %d frequency %.4f, expected %.2f±0.015", id, got, want)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	now := time.Date(2025, 6, 15, 23, 59, 59, 0, loc)
	sod := startOfDay(now)
	if sod.Hour() != 0 || sod.Minute() != 0 || sod.Day() != 15 {
		t.Fatalf("unexpected start of day %v", sod)
	}
	if sod.Location() != loc {
		t.Fatalf("start of day should keep the location")
	}
}
