package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for development; payments stay PENDING
// until a webhook is posted manually.
type StubProvider struct{}

func (s *StubProvider) Name() string { return "stub" }

func (s *StubProvider) InitiatePayment(ctx context.Context, req Request) (*Response, error) {
	ref := fmt.Sprintf("stub_%s_%d", req.OrderNumber, time.Now().UnixNano())
	return &Response{
		Reference: ref,
		Status:    "PENDING",
		ExpiresAt: time.Now().Add(req.ExpiresIn),
	}, nil
}

func (s *StubProvider) VerifyPayment(ctx context.Context, reference string) (*Response, error) {
	if !strings.HasPrefix(reference, "stub_") {
		return nil, fmt.Errorf("unknown stub reference %q", reference)
	}
	return &Response{Reference: reference, Status: "pending"}, nil
}
