package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WebhookDeliveriesTotal counts deliveries by source and terminal outcome
	// (processed, duplicate, rejected, failed).
	WebhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payhook",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Total number of webhook deliveries by outcome",
		},
		[]string{"source", "outcome"},
	)

	WebhookVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "payhook",
			Subsystem: "webhook",
			Name:      "verify_duration_seconds",
			Help:      "Signature verification latency in seconds",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01},
		},
		[]string{"source"},
	)
)

func init() {
	Registry.MustRegister(WebhookDeliveriesTotal, WebhookVerifyDuration)
}
