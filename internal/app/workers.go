package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"payhook/config"
	"payhook/internal/external/kafka"
	"payhook/internal/external/opensearch"
	"payhook/internal/messaging"
	"payhook/internal/webhook"
)

// StartAuditWorker consumes verified events from Kafka and indexes an
// audit record per delivery into OpenSearch. Failed messages go to the
// DLQ after retries so the consumer never stalls on a poison message.
func StartAuditWorker(ctx context.Context, cfg config.Config, sink *opensearch.DeliverySink) {
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaEventsTopic, cfg.KafkaAuditConsumerGroup)
	dlq := kafka.NewDLQPublisher(cfg.KafkaBrokers, cfg.KafkaEventsDLQTopic)

	handler := messaging.WithDLQ(
		messaging.WithRetry(auditHandler(sink), messaging.DefaultRetryConfig()),
		dlq,
	)
	runner := messaging.NewRunner([]messaging.Worker{consumer}, handler)

	go func() {
		slog.Info("Starting audit worker",
			"topic", cfg.KafkaEventsTopic,
			"group", cfg.KafkaAuditConsumerGroup)
		if err := runner.Start(ctx); err != nil {
			slog.Error("Audit worker failed", slog.Any("error", err))
		}
		_ = dlq.Close()
	}()
}

func auditHandler(sink *opensearch.DeliverySink) messaging.MessageHandler {
	return func(ctx context.Context, key, value []byte) error {
		var env messaging.Envelope
		if err := json.Unmarshal(value, &env); err != nil {
			return fmt.Errorf("unmarshal envelope: %w", err)
		}

		rec := opensearch.DeliveryRecord{
			DeliveryID: env.EventID,
			EventID:    env.Key,
			ReceivedAt: env.Timestamp,
		}

		switch env.Type {
		case webhook.TypeVendorEvent:
			rec.Source = string(webhook.SourceVendor)
			var event webhook.VendorEvent
			if err := json.Unmarshal(env.Payload, &event); err != nil {
				return fmt.Errorf("unmarshal vendor event: %w", err)
			}
			rec.EventType = event.Status
			rec.Payload = env.Payload
		case webhook.TypePlatformEvent:
			rec.Source = string(webhook.SourcePlatform)
			var event webhook.PlatformEvent
			if err := json.Unmarshal(env.Payload, &event); err != nil {
				return fmt.Errorf("unmarshal platform event: %w", err)
			}
			rec.EventType = event.EventType
			rec.Payload = event.Body
		default:
			return fmt.Errorf("unknown message type %q", env.Type)
		}

		return sink.IndexDelivery(ctx, rec)
	}
}
