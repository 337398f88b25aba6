package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"payhook/pkg/metrics"
)

// Outcome describes how a delivery terminated.
type Outcome struct {
	Source  Source
	Status  DeliveryStatus
	EventID string
}

// IngestService runs a delivery through verify -> dedupe -> dispatch.
// It is stateless apart from the injected dedup store; every call is
// request-scoped and safe to run concurrently.
type IngestService struct {
	salt      string
	deduper   *Deduper
	processor Processor
}

func NewIngestService(salt string, deduper *Deduper, processor Processor) *IngestService {
	return &IngestService{
		salt:      salt,
		deduper:   deduper,
		processor: processor,
	}
}

// HandleVendor processes a form-encoded vendor webhook. The field mapping
// must contain the values exactly as delivered, including empty ones.
func (s *IngestService) HandleVendor(ctx context.Context, fields map[string]string) (Outcome, error) {
	outcome := Outcome{Source: SourceVendor, Status: StatusReceived}

	start := time.Now()
	err := VerifyFields(fields, s.salt)
	metrics.WebhookVerifyDuration.WithLabelValues(string(SourceVendor)).Observe(time.Since(start).Seconds())
	if err != nil {
		return s.reject(ctx, outcome, err)
	}

	event := VendorEventFromFields(fields)
	if event.PaymentID == "" {
		return s.reject(ctx, outcome, fmt.Errorf("%w: missing payment_id", ErrMalformedPayload))
	}
	outcome.Status = StatusVerified
	outcome.EventID = event.DedupKey()

	isNew, err := s.deduper.FirstSeen(ctx, SourceVendor, event.DedupKey())
	if err != nil {
		return outcome, err
	}
	if !isNew {
		return s.duplicate(ctx, outcome), nil
	}

	if err := s.processor.ProcessVendorEvent(ctx, event); err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(string(SourceVendor), "failed").Inc()
		return outcome, fmt.Errorf("dispatch vendor event: %w", err)
	}

	outcome.Status = StatusProcessed
	metrics.WebhookDeliveriesTotal.WithLabelValues(string(SourceVendor), string(StatusProcessed)).Inc()
	return outcome, nil
}

// HandleEvent processes a JSON platform event. body must be the exact raw
// request bytes; signature and the classifiers come from headers.
func (s *IngestService) HandleEvent(ctx context.Context, body []byte, signature, eventType, eventObject string) (Outcome, error) {
	outcome := Outcome{Source: SourcePlatform, Status: StatusReceived}

	start := time.Now()
	err := VerifyBody(body, signature, s.salt)
	metrics.WebhookVerifyDuration.WithLabelValues(string(SourcePlatform)).Observe(time.Since(start).Seconds())
	if err != nil {
		return s.reject(ctx, outcome, err)
	}

	if !json.Valid(body) {
		return s.reject(ctx, outcome, fmt.Errorf("%w: body is not valid JSON", ErrMalformedPayload))
	}

	event := NewPlatformEvent(body, eventType, eventObject)
	outcome.Status = StatusVerified
	outcome.EventID = event.DedupKey()

	isNew, err := s.deduper.FirstSeen(ctx, SourcePlatform, event.DedupKey())
	if err != nil {
		return outcome, err
	}
	if !isNew {
		return s.duplicate(ctx, outcome), nil
	}

	if err := s.processor.ProcessPlatformEvent(ctx, event); err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(string(SourcePlatform), "failed").Inc()
		return outcome, fmt.Errorf("dispatch platform event: %w", err)
	}

	outcome.Status = StatusProcessed
	metrics.WebhookDeliveriesTotal.WithLabelValues(string(SourcePlatform), string(StatusProcessed)).Inc()
	return outcome, nil
}

func (s *IngestService) reject(ctx context.Context, outcome Outcome, err error) (Outcome, error) {
	outcome.Status = StatusRejected
	metrics.WebhookDeliveriesTotal.WithLabelValues(string(outcome.Source), string(StatusRejected)).Inc()
	slog.WarnContext(ctx, "webhook rejected",
		"source", outcome.Source,
		slog.Any("error", err))
	return outcome, err
}

func (s *IngestService) duplicate(ctx context.Context, outcome Outcome) Outcome {
	outcome.Status = StatusDuplicate
	metrics.WebhookDeliveriesTotal.WithLabelValues(string(outcome.Source), string(StatusDuplicate)).Inc()
	slog.InfoContext(ctx, "duplicate delivery acknowledged without reprocessing",
		"source", outcome.Source,
		"event_id", outcome.EventID)
	return outcome
}
