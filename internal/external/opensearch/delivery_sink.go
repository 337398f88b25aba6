// Package opensearch indexes verified webhook deliveries into an
// OpenSearch audit trail.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go"
)

// DeliveryRecord is the audit document stored per verified delivery.
type DeliveryRecord struct {
	DeliveryID string          `json:"delivery_id"`
	Source     string          `json:"source"`
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// DeliverySink writes delivery audit records to OpenSearch.
type DeliverySink struct {
	client *opensearch.Client
	index  string
}

func NewDeliverySink(ctx context.Context, urls []string, index string) (*DeliverySink, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}

	cfg := opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
	}
	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &DeliverySink{client: client, index: index}

	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *DeliverySink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil // already exists
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"delivery_id": map[string]any{"type": "keyword"},
				"source":      map[string]any{"type": "keyword"},
				"event_id":    map[string]any{"type": "keyword"},
				"event_type":  map[string]any{"type": "keyword"},
				"received_at": map[string]any{"type": "date"},
				"payload":     map[string]any{"type": "object", "enabled": true},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0, // dev-friendly; change in prod
		},
	}
	buf, _ := json.Marshal(body)
	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

// IndexDelivery stores a delivery record keyed by delivery ID, so replayed
// audit messages overwrite rather than duplicate.
func (s *DeliverySink) IndexDelivery(ctx context.Context, rec DeliveryRecord) error {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal delivery record: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(rec.DeliveryID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}
