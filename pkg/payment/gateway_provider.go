package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GatewayProvider talks to the hosted-checkout REST API of the payment
// gateway. It creates a checkout session on initiate; the gateway calls
// our webhook with lifecycle events afterwards.
type GatewayProvider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewGatewayProvider(baseURL, apiKey string) *GatewayProvider {
	return &GatewayProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GatewayProvider) Name() string { return "gateway" }

type gatewayCheckoutReq struct {
	OrderID        string `json:"order_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
	CallbackURL    string `json:"callback_url"`
	IdempotencyKey string `json:"idempotency_key"`
	ExpiresSeconds int64  `json:"expires_seconds"`
}

type gatewayCheckoutResp struct {
	PaymentID   string `json:"payment_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	ExpiresAt   int64  `json:"expires_at"`
}

func (p *GatewayProvider) InitiatePayment(ctx context.Context, req Request) (*Response, error) {
	body, _ := json.Marshal(gatewayCheckoutReq{
		OrderID:        req.OrderNumber,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		Description:    req.Description,
		CallbackURL:    req.CallbackURL,
		IdempotencyKey: req.IdempotencyKey,
		ExpiresSeconds: int64(req.ExpiresIn.Seconds()),
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/checkouts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway checkout failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out gatewayCheckoutResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("gateway checkout: invalid response: %w", err)
	}
	return &Response{
		Reference:   out.PaymentID,
		Status:      out.Status,
		CheckoutURL: out.CheckoutURL,
		ExpiresAt:   time.Unix(out.ExpiresAt, 0),
	}, nil
}

type gatewayStatusResp struct {
	Status string `json:"status"`
}

func (p *GatewayProvider) VerifyPayment(ctx context.Context, reference string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/payments/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out gatewayStatusResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &Response{Reference: reference, Status: out.Status}, nil
}
