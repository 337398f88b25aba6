//go:build integration
// +build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"payhook/internal/external/kafka"
	"payhook/internal/messaging"
	"payhook/internal/testinfra"
	"payhook/pkg/correlation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishConsume_Integration(t *testing.T) {
	ctx := context.Background()

	kc, err := testinfra.NewKafka(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { kc.Cleanup(ctx) })

	publisher := kafka.NewPublisher(kc.Brokers, kc.EventsTopic)
	t.Cleanup(func() { _ = publisher.Close() })

	env, err := messaging.NewEnvelope("p1", "webhook.vendor", map[string]string{"payment_id": "p1"})
	require.NoError(t, err)

	pubCtx := correlation.WithID(ctx, "corr-123")
	require.NoError(t, publisher.Publish(pubCtx, env))

	consumer := kafka.NewConsumer(kc.Brokers, kc.EventsTopic, kc.AuditGroup)

	type received struct {
		envelope messaging.Envelope
		corrID   string
	}
	got := make(chan received, 1)

	consumeCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	go func() {
		_ = consumer.Start(consumeCtx, func(msgCtx context.Context, key, value []byte) error {
			var env messaging.Envelope
			if err := json.Unmarshal(value, &env); err != nil {
				return err
			}
			got <- received{envelope: env, corrID: correlation.FromContext(msgCtx)}
			cancel()
			return nil
		})
	}()

	select {
	case r := <-got:
		assert.Equal(t, env.EventID, r.envelope.EventID)
		assert.Equal(t, "p1", r.envelope.Key)
		assert.Equal(t, "webhook.vendor", r.envelope.Type)
		assert.Equal(t, "corr-123", r.corrID,
			"correlation ID must survive the broker hop")
	case <-consumeCtx.Done():
		t.Fatal("timed out waiting for the published message")
	}
}
