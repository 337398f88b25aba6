package webhook

import (
	"context"
	"fmt"

	"payhook/internal/messaging"
)

// Message types carried in envelope metadata.
const (
	TypeVendorEvent   = "webhook.vendor"
	TypePlatformEvent = "webhook.platform"
)

// AsyncProcessor dispatches verified events by publishing them to Kafka.
// The envelope key is the event's dedup key so redeliveries of one event
// land on one partition.
type AsyncProcessor struct {
	publisher messaging.Publisher
}

func NewAsyncProcessor(publisher messaging.Publisher) *AsyncProcessor {
	return &AsyncProcessor{publisher: publisher}
}

func (p *AsyncProcessor) ProcessVendorEvent(ctx context.Context, event VendorEvent) error {
	envelope, err := messaging.NewEnvelope(event.DedupKey(), TypeVendorEvent, event)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.publisher.Publish(ctx, envelope)
}

func (p *AsyncProcessor) ProcessPlatformEvent(ctx context.Context, event PlatformEvent) error {
	envelope, err := messaging.NewEnvelope(event.DedupKey(), TypePlatformEvent, event)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.publisher.Publish(ctx, envelope)
}
