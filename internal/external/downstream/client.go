// Package downstream delivers verified webhook events to the integrating
// application over HTTP.
package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the port for downstream event delivery.
type Client interface {
	SendVendorEvent(ctx context.Context, req VendorEventRequest) error
	SendPlatformEvent(ctx context.Context, req PlatformEventRequest) error
	Close() error
}

// VendorEventRequest is the normalized payment notification forwarded downstream.
type VendorEventRequest struct {
	PaymentID        string            `json:"payment_id"`
	PaymentRequestID string            `json:"payment_request_id"`
	Phone            string            `json:"phone"`
	Amount           string            `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	ReferenceNumber  string            `json:"reference_number"`
	Fields           map[string]string `json:"fields"`
}

// PlatformEventRequest is the normalized platform event forwarded downstream.
type PlatformEventRequest struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	EventObject string          `json:"event_object"`
	Payload     json.RawMessage `json:"payload"`
}

// HTTPClient implements Client against the downstream application's
// internal update endpoints.
type HTTPClient struct {
	vendorURL   string
	platformURL string
	http        *http.Client
}

var _ Client = (*HTTPClient)(nil)

func New(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		vendorURL:   baseURL + "/internal/events/vendor",
		platformURL: baseURL + "/internal/events/platform",
		http:        httpClient,
	}
}

func (c *HTTPClient) SendVendorEvent(ctx context.Context, req VendorEventRequest) error {
	return c.post(ctx, c.vendorURL, req)
}

func (c *HTTPClient) SendPlatformEvent(ctx context.Context, req PlatformEventRequest) error {
	return c.post(ctx, c.platformURL, req)
}

func (c *HTTPClient) post(ctx context.Context, url string, body any) error {
	j, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(j))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("downstream %s: %s", resp.Status, string(raw))
	}
	return nil
}

// Close is a no-op for the plain HTTP client.
func (c *HTTPClient) Close() error {
	return nil
}
