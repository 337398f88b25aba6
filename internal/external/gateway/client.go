// Package gateway is the outbound client for the payment provider's HTTP
// API: payment-request creation, refunds, and status lookups. Outbound
// form payloads are signed with the same salt scheme the provider uses for
// its webhooks.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payhook/internal/webhook"

	"github.com/google/go-querystring/query"
)

type Client struct {
	baseURL string
	salt    string
	http    *http.Client
}

func New(baseURL, salt string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		salt:    salt,
		http:    httpClient,
	}
}

// PaymentRequest describes a hosted payment page to create.
type PaymentRequest struct {
	Amount          string
	Currency        string
	Phone           string
	ReferenceNumber string
	RedirectURL     string
}

// PaymentRequestResult is the provider's response to a create call.
type PaymentRequestResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePaymentRequest creates a payment request. The provider expects a
// form-encoded body with an embedded signature over the sorted fields.
func (c *Client) CreatePaymentRequest(ctx context.Context, req PaymentRequest) (PaymentRequestResult, error) {
	fields := map[string]string{
		"amount":           req.Amount,
		"currency":         req.Currency,
		"phone":            req.Phone,
		"reference_number": req.ReferenceNumber,
		"redirect_url":     req.RedirectURL,
	}

	var out PaymentRequestResult
	if err := c.postSignedForm(ctx, "/payment-requests", fields, &out); err != nil {
		return PaymentRequestResult{}, err
	}
	return out, nil
}

// RefundResult is the provider's response to a refund call.
type RefundResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Refund refunds a completed payment, fully or partially.
func (c *Client) Refund(ctx context.Context, paymentID, amount string) (RefundResult, error) {
	fields := map[string]string{
		"payment_id": paymentID,
		"amount":     amount,
	}

	var out RefundResult
	if err := c.postSignedForm(ctx, "/refunds", fields, &out); err != nil {
		return RefundResult{}, err
	}
	return out, nil
}

// StatusQuery filters the payment status lookup.
type StatusQuery struct {
	PaymentID       string `url:"payment_id,omitempty"`
	ReferenceNumber string `url:"reference_number,omitempty"`
}

// PaymentStatus is a single payment's state as reported by the provider.
type PaymentStatus struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentStatusLookup fetches payment state by ID or reference number.
// Webhooks remain the source of truth for transitions; this is the
// reconciliation path the provider documents for missed deliveries.
func (c *Client) PaymentStatusLookup(ctx context.Context, q StatusQuery) ([]PaymentStatus, error) {
	params, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/payments?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("provider %s: %s", resp.Status, string(raw))
	}

	var out []PaymentStatus
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) postSignedForm(ctx context.Context, path string, fields map[string]string, out any) error {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	form.Set(webhook.SignatureField, webhook.SignFields(fields, c.salt))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("provider %s: %s", resp.Status, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
