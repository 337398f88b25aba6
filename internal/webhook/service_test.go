package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSalt = "topsecret"

func signedVendorFields() map[string]string {
	fields := map[string]string{
		"payment_id":       "p1",
		"amount":           "2.00",
		"currency":         "MYR",
		"status":           "completed",
		"phone":            "",
		"reference_number": "",
	}
	fields[SignatureField] = SignFields(fields, testSalt)
	return fields
}

func ingestService(t *testing.T) (*IngestService, *MockDedupStore, *MockProcessor) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := NewMockDedupStore(ctrl)
	processor := NewMockProcessor(ctrl)
	service := NewIngestService(testSalt, NewDeduper(store, FailClosed), processor)

	return service, store, processor
}

func TestIngestService_HandleVendor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("verified first-seen delivery is processed", func(t *testing.T) {
		service, store, processor := ingestService(t)

		store.EXPECT().MarkSeen(ctx, SourceVendor, "p1").Return(true, nil)
		processor.EXPECT().ProcessVendorEvent(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, event VendorEvent) error {
				assert.Equal(t, "p1", event.PaymentID)
				assert.Equal(t, "2.00", event.Amount)
				assert.Equal(t, "completed", event.Status)
				assert.NotContains(t, event.Fields, SignatureField)
				return nil
			})

		outcome, err := service.HandleVendor(ctx, signedVendorFields())

		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, outcome.Status)
		assert.Equal(t, "p1", outcome.EventID)
	})

	t.Run("redelivery is acknowledged without dispatch", func(t *testing.T) {
		service, store, _ := ingestService(t)

		store.EXPECT().MarkSeen(ctx, SourceVendor, "p1").Return(false, nil)
		// No processor expectation: dispatching a duplicate fails the test.

		outcome, err := service.HandleVendor(ctx, signedVendorFields())

		require.NoError(t, err)
		assert.Equal(t, StatusDuplicate, outcome.Status)
	})

	t.Run("bad signature is rejected before dedup", func(t *testing.T) {
		service, _, _ := ingestService(t)

		fields := signedVendorFields()
		fields["status"] = "failed" // stale digest

		outcome, err := service.HandleVendor(ctx, fields)

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		assert.Equal(t, StatusRejected, outcome.Status)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		service, _, _ := ingestService(t)

		fields := signedVendorFields()
		delete(fields, SignatureField)

		outcome, err := service.HandleVendor(ctx, fields)

		assert.ErrorIs(t, err, ErrSignatureMissing)
		assert.Equal(t, StatusRejected, outcome.Status)
	})

	t.Run("signed payload without payment_id is malformed", func(t *testing.T) {
		service, _, _ := ingestService(t)

		fields := map[string]string{"amount": "1.00", "status": "completed"}
		fields[SignatureField] = SignFields(fields, testSalt)

		outcome, err := service.HandleVendor(ctx, fields)

		assert.ErrorIs(t, err, ErrMalformedPayload)
		assert.Equal(t, StatusRejected, outcome.Status)
	})

	t.Run("store outage under fail-closed propagates", func(t *testing.T) {
		service, store, _ := ingestService(t)

		store.EXPECT().MarkSeen(ctx, SourceVendor, "p1").
			Return(false, errors.New("connection refused"))

		_, err := service.HandleVendor(ctx, signedVendorFields())

		assert.ErrorIs(t, err, ErrDedupStoreUnavailable)
	})

	t.Run("dispatch failure is not a verification failure", func(t *testing.T) {
		service, store, processor := ingestService(t)

		store.EXPECT().MarkSeen(ctx, SourceVendor, "p1").Return(true, nil)
		processor.EXPECT().ProcessVendorEvent(ctx, gomock.Any()).
			Return(errors.New("downstream boom"))

		outcome, err := service.HandleVendor(ctx, signedVendorFields())

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSignatureMismatch)
		assert.Equal(t, StatusVerified, outcome.Status)
	})
}

func TestIngestService_HandleEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("verified first-seen event is processed", func(t *testing.T) {
		service, store, processor := ingestService(t)

		body := []byte(`{"id":"evt-1","object":"payment"}`)
		store.EXPECT().MarkSeen(ctx, SourcePlatform, "evt-1").Return(true, nil)
		processor.EXPECT().ProcessPlatformEvent(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, event PlatformEvent) error {
				assert.Equal(t, "payment.completed", event.EventType)
				assert.Equal(t, "payment", event.EventObject)
				assert.JSONEq(t, string(body), string(event.Body))
				return nil
			})

		outcome, err := service.HandleEvent(ctx, body, SignBody(body, testSalt),
			"payment.completed", "payment")

		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, outcome.Status)
		assert.Equal(t, "evt-1", outcome.EventID)
	})

	t.Run("redelivery of same event id is a duplicate", func(t *testing.T) {
		service, store, _ := ingestService(t)

		body := []byte(`{"id":"evt-1"}`)
		store.EXPECT().MarkSeen(ctx, SourcePlatform, "evt-1").Return(false, nil)

		outcome, err := service.HandleEvent(ctx, body, SignBody(body, testSalt), "t", "o")

		require.NoError(t, err)
		assert.Equal(t, StatusDuplicate, outcome.Status)
	})

	t.Run("body without id falls back to content hash", func(t *testing.T) {
		service, store, processor := ingestService(t)

		body := []byte(`{"object":"payout"}`)
		store.EXPECT().MarkSeen(ctx, SourcePlatform, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ Source, eventID string) (bool, error) {
				assert.Len(t, eventID, 64) // hex sha256
				return true, nil
			})
		processor.EXPECT().ProcessPlatformEvent(ctx, gomock.Any()).Return(nil)

		_, err := service.HandleEvent(ctx, body, SignBody(body, testSalt), "t", "o")
		require.NoError(t, err)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		service, _, _ := ingestService(t)

		body := []byte(`{"id":"evt-1"}`)
		sig := SignBody(body, testSalt)
		tampered := []byte(`{"id":"evt-2"}`)

		outcome, err := service.HandleEvent(ctx, tampered, sig, "t", "o")

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		assert.Equal(t, StatusRejected, outcome.Status)
	})

	t.Run("signed non-JSON body is malformed", func(t *testing.T) {
		service, _, _ := ingestService(t)

		body := []byte(`not json at all`)

		outcome, err := service.HandleEvent(ctx, body, SignBody(body, testSalt), "t", "o")

		assert.ErrorIs(t, err, ErrMalformedPayload)
		assert.Equal(t, StatusRejected, outcome.Status)
	})
}
