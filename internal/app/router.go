package app

import (
	"payhook/internal/handlers"
	"payhook/pkg/health"
	"payhook/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	vendor         *handlers.VendorHandler
	event          *handlers.EventHandler
	reconcile      *handlers.ReconcileHandler
	healthRegistry *health.Registry
}

func NewRouter(vendor *handlers.VendorHandler, event *handlers.EventHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		vendor:         vendor,
		event:          event,
		healthRegistry: healthRegistry,
	}
}

// WithReconcile enables the operator-facing payment status lookup.
func (r *Router) WithReconcile(h *handlers.ReconcileHandler) *Router {
	r.reconcile = h
	return r
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.POST("/webhooks/vendor", r.vendor.Webhook)
	engine.POST("/webhooks/events", r.event.Webhook)

	// Operator reconciliation path for missed deliveries
	if r.reconcile != nil {
		engine.GET("/internal/payments/status", r.reconcile.PaymentStatus)
	}
}
