package service

import (
	"testing"

	"softcart/internal/domain"
)

func TestFulfillmentAllowed(t *testing.T) {
	cases := []struct {
		current string
		next    string
		want    bool
	}{
		{domain.OrderConfirmed, domain.OrderShipped, true},
		{domain.OrderShipped, domain.OrderDelivered, true},

		// no skipping and no going backwards
		{domain.OrderConfirmed, domain.OrderDelivered, false},
		{domain.OrderShipped, domain.OrderShipped, false},
		{domain.OrderDelivered, domain.OrderShipped, false},
		{domain.OrderDelivered, domain.OrderDelivered, false},

		// unpaid, cancelled and refunded orders never ship
		{domain.OrderPending, domain.OrderShipped, false},
		{domain.OrderCancelled, domain.OrderShipped, false},
		{domain.OrderRefunded, domain.OrderShipped, false},

		// fulfillment is not a path to cancellation or refund
		{domain.OrderConfirmed, domain.OrderCancelled, false},
		{domain.OrderConfirmed, domain.OrderRefunded, false},
		{domain.OrderConfirmed, domain.OrderConfirmed, false},
	}
	for _, c := range cases {
		if got := fulfillmentAllowed(c.current, c.next); got != c.want {
			t.Fatalf("fulfillmentAllowed(%s, %s) = %v, want %v", c.current, c.next, got, c.want)
		}
	}
}
