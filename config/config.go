package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL,required"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// VendorSalt is the shared signing secret from the provider dashboard.
	// It must never appear in logs or responses.
	VendorSalt string `env:"VENDOR_SALT,required"`

	SignatureHeader   string `env:"SIGNATURE_HEADER" envDefault:"X-Gateway-Signature"`
	EventTypeHeader   string `env:"EVENT_TYPE_HEADER" envDefault:"X-Gateway-Event-Type"`
	EventObjectHeader string `env:"EVENT_OBJECT_HEADER" envDefault:"X-Gateway-Event-Object"`

	// DedupPolicy decides behavior when the dedup store is unreachable:
	// "fail_closed" answers 503 so the provider retries, "fail_open"
	// processes the delivery anyway and logs a warning.
	DedupPolicy string `env:"DEDUP_POLICY" envDefault:"fail_closed"`

	// Webhook dispatch mode: "sync" (forward to downstream app via HTTP)
	// or "kafka" (publish verified events to Kafka).
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"sync"`

	DownstreamBaseURL     string        `env:"DOWNSTREAM_BASE_URL"`
	HTTPDownstreamTimeout time.Duration `env:"HTTP_DOWNSTREAM_TIMEOUT" envDefault:"10s"`

	// Kafka configuration
	KafkaBrokers            []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaEventsTopic        string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"webhooks.verified"`
	KafkaEventsDLQTopic     string   `env:"KAFKA_EVENTS_DLQ_TOPIC" envDefault:"webhooks.verified.dlq"`
	KafkaAuditConsumerGroup string   `env:"KAFKA_AUDIT_CONSUMER_GROUP" envDefault:"payhook-audit"`

	// OpenSearch delivery audit trail (enabled when URLs are set, kafka mode only)
	OpensearchUrls            []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexDeliveries string   `env:"OPENSEARCH_INDEX_DELIVERIES" envDefault:"webhook-deliveries"`

	// Outbound provider API
	GatewayBaseURL           string        `env:"GATEWAY_BASE_URL"`
	HTTPGatewayClientTimeout time.Duration `env:"HTTP_GATEWAY_CLIENT_TIMEOUT" envDefault:"20s"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
