package handlers

import (
	"errors"
	"net/http"

	"payhook/internal/webhook"

	"github.com/gin-gonic/gin"
)

// VendorHandler receives form-encoded payment notifications.
type VendorHandler struct {
	service *webhook.IngestService
}

func NewVendorHandler(service *webhook.IngestService) *VendorHandler {
	return &VendorHandler{service: service}
}

// Webhook handles POST /webhooks/vendor.
func (h *VendorHandler) Webhook(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "malformed form payload"})
		return
	}

	// Keep every delivered field, empty values included: they participate
	// in the signature.
	fields := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		} else {
			fields[k] = ""
		}
	}

	outcome, err := h.service.HandleVendor(c.Request.Context(), fields)
	respond(c, outcome, err)
}

// respond maps a delivery outcome onto the provider's response contract.
// The provider retries on any non-2xx, so duplicates are acknowledged as
// success without reprocessing.
func respond(c *gin.Context, outcome webhook.Outcome, err error) {
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrSignatureMissing), errors.Is(err, webhook.ErrSignatureMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid signature"})
		case errors.Is(err, webhook.ErrMalformedPayload):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, webhook.ErrDedupStoreUnavailable):
			// Fail-closed: let the provider's retry loop redeliver.
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "temporarily unavailable, retry"})
		default:
			// Downstream processing failure after successful verification.
			// Never reported as an authentication error.
			c.JSON(http.StatusInternalServerError, gin.H{"message": "processing failed"})
		}
		return
	}

	if outcome.Status == webhook.StatusDuplicate {
		c.JSON(http.StatusOK, gin.H{"message": "event already processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
