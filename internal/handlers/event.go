package handlers

import (
	"io"
	"net/http"

	"payhook/internal/webhook"

	"github.com/gin-gonic/gin"
)

// EventHeaders names the transport headers carrying the signature and the
// event classifiers for platform deliveries.
type EventHeaders struct {
	Signature   string
	EventType   string
	EventObject string
}

// EventHandler receives JSON platform events. The body is verified as the
// exact received bytes; binding/re-serializing it first would break the
// signature.
type EventHandler struct {
	service *webhook.IngestService
	headers EventHeaders
}

func NewEventHandler(service *webhook.IngestService, headers EventHeaders) *EventHandler {
	return &EventHandler{service: service, headers: headers}
}

// Webhook handles POST /webhooks/events.
func (h *EventHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot read body"})
		return
	}

	outcome, err := h.service.HandleEvent(
		c.Request.Context(),
		body,
		c.GetHeader(h.headers.Signature),
		c.GetHeader(h.headers.EventType),
		c.GetHeader(h.headers.EventObject),
	)
	respond(c, outcome, err)
}
