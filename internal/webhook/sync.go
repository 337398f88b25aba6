package webhook

import (
	"context"

	"payhook/internal/external/downstream"
)

// HTTPSyncProcessor dispatches verified events synchronously by calling
// the downstream application over HTTP.
type HTTPSyncProcessor struct {
	client downstream.Client
}

func NewHTTPSyncProcessor(client downstream.Client) *HTTPSyncProcessor {
	return &HTTPSyncProcessor{client: client}
}

// ProcessVendorEvent converts the event to a DTO and sends it downstream.
func (p *HTTPSyncProcessor) ProcessVendorEvent(ctx context.Context, event VendorEvent) error {
	req := downstream.VendorEventRequest{
		PaymentID:        event.PaymentID,
		PaymentRequestID: event.PaymentRequestID,
		Phone:            event.Phone,
		Amount:           event.Amount,
		Currency:         event.Currency,
		Status:           event.Status,
		ReferenceNumber:  event.ReferenceNumber,
		Fields:           event.Fields,
	}
	return p.client.SendVendorEvent(ctx, req)
}

// ProcessPlatformEvent converts the event to a DTO and sends it downstream.
func (p *HTTPSyncProcessor) ProcessPlatformEvent(ctx context.Context, event PlatformEvent) error {
	req := downstream.PlatformEventRequest{
		EventID:     event.DedupKey(),
		EventType:   event.EventType,
		EventObject: event.EventObject,
		Payload:     event.Body,
	}
	return p.client.SendPlatformEvent(ctx, req)
}
