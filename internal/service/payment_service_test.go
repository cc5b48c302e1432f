package service

import (
	"testing"

	"softcart/internal/domain"
)

func TestTransitionFor(t *testing.T) {
	cases := []struct {
		event   string
		payment string
		order   string
	}{
		{domain.PaymentEventCompleted, domain.PaymentCompleted, domain.OrderConfirmed},
		{domain.PaymentEventFailed, domain.PaymentFailed, domain.OrderCancelled},
		{domain.PaymentEventExpired, domain.PaymentCancelled, domain.OrderCancelled},
		{domain.PaymentEventRefunded, domain.PaymentRefunded, domain.OrderRefunded},
	}
	for _, c := range cases {
		pay, order, ok := transitionFor(c.event)
		if !ok {
			t.Fatalf("event %q should be recognized", c.event)
		}
		if pay != c.payment || order != c.order {
			t.Fatalf("event %q: got (%s, %s), want (%s, %s)", c.event, pay, order, c.payment, c.order)
		}
	}
	if _, _, ok := transitionFor("chargeback.created"); ok {
		t.Fatalf("unknown event types must be ignored")
	}
}

func TestEventAllowed(t *testing.T) {
	cases := []struct {
		status string
		event  string
		want   bool
	}{
		{domain.PaymentPending, domain.PaymentEventCompleted, true},
		{domain.PaymentProcessing, domain.PaymentEventCompleted, true},
		{domain.PaymentProcessing, domain.PaymentEventFailed, true},
		{domain.PaymentProcessing, domain.PaymentEventExpired, true},

		// a completed payment only ever refunds
		{domain.PaymentCompleted, domain.PaymentEventRefunded, true},
		{domain.PaymentCompleted, domain.PaymentEventCompleted, false},
		{domain.PaymentCompleted, domain.PaymentEventFailed, false},
		{domain.PaymentCompleted, domain.PaymentEventExpired, false},

		// a failed charge may still succeed on retry
		{domain.PaymentFailed, domain.PaymentEventCompleted, true},
		{domain.PaymentFailed, domain.PaymentEventRefunded, false},
		{domain.PaymentFailed, domain.PaymentEventExpired, false},

		// refunded and cancelled are terminal
		{domain.PaymentRefunded, domain.PaymentEventCompleted, false},
		{domain.PaymentRefunded, domain.PaymentEventFailed, false},
		{domain.PaymentRefunded, domain.PaymentEventRefunded, false},
		{domain.PaymentCancelled, domain.PaymentEventCompleted, false},
		{domain.PaymentCancelled, domain.PaymentEventRefunded, false},
	}
	for _, c := range cases {
		if got := eventAllowed(c.status, c.event); got != c.want {
			t.Fatalf("eventAllowed(%s, %s) = %v, want %v", c.status, c.event, got, c.want)
		}
	}
}

// A late completed delivery on a refunded order must never reach the
// transition table, otherwise it would flip the order back to CONFIRMED
// while its licenses stay REVOKED.
func TestRefundedOrderIgnoresLateCompleted(t *testing.T) {
	if eventAllowed(domain.PaymentRefunded, domain.PaymentEventCompleted) {
		t.Fatalf("a refunded payment must not accept a completed event")
	}
	pay, order, ok := transitionFor(domain.PaymentEventCompleted)
	if !ok || pay != domain.PaymentCompleted || order != domain.OrderConfirmed {
		t.Fatalf("transition table changed unexpectedly: (%s, %s, %v)", pay, order, ok)
	}
}
