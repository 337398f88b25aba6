package handlers

import (
	"net/http"

	"payhook/internal/external/gateway"

	"github.com/gin-gonic/gin"
)

// ReconcileHandler exposes the provider's payment status lookup for
// operators reconciling missed webhook deliveries.
type ReconcileHandler struct {
	client *gateway.Client
}

func NewReconcileHandler(client *gateway.Client) *ReconcileHandler {
	return &ReconcileHandler{client: client}
}

// PaymentStatus handles GET /internal/payments/status.
func (h *ReconcileHandler) PaymentStatus(c *gin.Context) {
	q := gateway.StatusQuery{
		PaymentID:       c.Query("payment_id"),
		ReferenceNumber: c.Query("reference_number"),
	}
	if q.PaymentID == "" && q.ReferenceNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "payment_id or reference_number is required"})
		return
	}

	statuses, err := h.client.PaymentStatusLookup(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "provider lookup failed"})
		return
	}

	c.JSON(http.StatusOK, statuses)
}
