package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Source identifies which provider channel delivered a webhook.
type Source string

const (
	// SourceVendor is the form-encoded payment notification channel,
	// signature embedded in the body.
	SourceVendor Source = "vendor"
	// SourcePlatform is the JSON account-level event channel, signature
	// carried in a request header.
	SourcePlatform Source = "platform"
)

// DeliveryStatus is the state of a webhook delivery.
// Transitions: received -> verified | rejected; verified -> processed | duplicate.
type DeliveryStatus string

const (
	StatusReceived  DeliveryStatus = "received"
	StatusVerified  DeliveryStatus = "verified"
	StatusRejected  DeliveryStatus = "rejected"
	StatusDuplicate DeliveryStatus = "duplicate"
	StatusProcessed DeliveryStatus = "processed"
)

// VendorEvent is a verified form-encoded payment notification.
type VendorEvent struct {
	PaymentID        string            `json:"payment_id"`
	PaymentRequestID string            `json:"payment_request_id"`
	Phone            string            `json:"phone"`
	Amount           string            `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	ReferenceNumber  string            `json:"reference_number"`
	Fields           map[string]string `json:"fields"`
}

// VendorEventFromFields builds a VendorEvent from the received field
// mapping. All non-signature fields are kept in Fields as delivered.
func VendorEventFromFields(fields map[string]string) VendorEvent {
	kept := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == SignatureField {
			continue
		}
		kept[k] = v
	}

	return VendorEvent{
		PaymentID:        kept["payment_id"],
		PaymentRequestID: kept["payment_request_id"],
		Phone:            kept["phone"],
		Amount:           kept["amount"],
		Currency:         kept["currency"],
		Status:           kept["status"],
		ReferenceNumber:  kept["reference_number"],
		Fields:           kept,
	}
}

// DedupKey returns the stable identifier used for at-most-once processing.
func (e VendorEvent) DedupKey() string {
	return e.PaymentID
}

// PlatformEvent is a verified JSON account-level event. Body holds the
// exact bytes that were signed; the classifiers come from transport
// headers and are opaque to this service.
type PlatformEvent struct {
	EventType   string          `json:"event_type"`
	EventObject string          `json:"event_object"`
	Body        json.RawMessage `json:"body"`

	dedupKey string
}

// NewPlatformEvent builds a PlatformEvent from the raw body and transport
// metadata. The dedup key is the body's top-level "id" field when present,
// otherwise the SHA-256 of the signed bytes.
func NewPlatformEvent(body []byte, eventType, eventObject string) PlatformEvent {
	key := ""
	var envelope struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.ID != "" {
		key = envelope.ID
	}
	if key == "" {
		sum := sha256.Sum256(body)
		key = hex.EncodeToString(sum[:])
	}

	return PlatformEvent{
		EventType:   eventType,
		EventObject: eventObject,
		Body:        json.RawMessage(body),
		dedupKey:    key,
	}
}

// DedupKey returns the stable identifier used for at-most-once processing.
func (e PlatformEvent) DedupKey() string {
	return e.dedupKey
}
