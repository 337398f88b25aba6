package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"payhook/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSalt = "topsecret"

// stubProcessor counts dispatches and optionally fails them.
type stubProcessor struct {
	vendorCalls   atomic.Int64
	platformCalls atomic.Int64
	err           error
}

func (p *stubProcessor) ProcessVendorEvent(context.Context, webhook.VendorEvent) error {
	p.vendorCalls.Add(1)
	return p.err
}

func (p *stubProcessor) ProcessPlatformEvent(context.Context, webhook.PlatformEvent) error {
	p.platformCalls.Add(1)
	return p.err
}

// downStore simulates a dedup store outage.
type downStore struct{}

func (downStore) MarkSeen(context.Context, webhook.Source, string) (bool, error) {
	return false, errors.New("connection refused")
}

func vendorRouter(store webhook.DedupStore, processor webhook.Processor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := webhook.NewIngestService(testSalt, webhook.NewDeduper(store, webhook.FailClosed), processor)
	engine := gin.New()
	engine.POST("/webhooks/vendor", NewVendorHandler(service).Webhook)
	return engine
}

func signedForm() url.Values {
	fields := map[string]string{
		"payment_id":       "p1",
		"amount":           "2.00",
		"currency":         "MYR",
		"status":           "completed",
		"phone":            "",
		"reference_number": "",
	}
	fields[webhook.SignatureField] = webhook.SignFields(fields, testSalt)

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	return form
}

func postForm(t *testing.T, engine *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/vendor",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestVendorHandler_Webhook(t *testing.T) {
	t.Run("valid delivery returns 200", func(t *testing.T) {
		processor := &stubProcessor{}
		engine := vendorRouter(webhook.NewMemoryStore(), processor)

		rec := postForm(t, engine, signedForm())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.Equal(t, int64(1), processor.vendorCalls.Load())
	})

	t.Run("redelivery returns 200 with a single dispatch", func(t *testing.T) {
		processor := &stubProcessor{}
		engine := vendorRouter(webhook.NewMemoryStore(), processor)

		form := signedForm()
		first := postForm(t, engine, form)
		second := postForm(t, engine, form)

		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, `{"message":"event already processed"}`, second.Body.String())
		assert.Equal(t, int64(1), processor.vendorCalls.Load(),
			"duplicate must be acknowledged without reprocessing")
	})

	t.Run("tampered payload returns 401", func(t *testing.T) {
		processor := &stubProcessor{}
		engine := vendorRouter(webhook.NewMemoryStore(), processor)

		form := signedForm()
		form.Set("amount", "9999.00")

		rec := postForm(t, engine, form)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"invalid signature"}`, rec.Body.String())
		assert.Zero(t, processor.vendorCalls.Load())
	})

	t.Run("missing signature returns 401", func(t *testing.T) {
		engine := vendorRouter(webhook.NewMemoryStore(), &stubProcessor{})

		form := signedForm()
		form.Del(webhook.SignatureField)

		rec := postForm(t, engine, form)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed payload without payment_id returns 400", func(t *testing.T) {
		engine := vendorRouter(webhook.NewMemoryStore(), &stubProcessor{})

		fields := map[string]string{"amount": "1.00", "status": "completed"}
		fields[webhook.SignatureField] = webhook.SignFields(fields, testSalt)
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, v)
		}

		rec := postForm(t, engine, form)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store outage under fail-closed returns 503", func(t *testing.T) {
		processor := &stubProcessor{}
		engine := vendorRouter(downStore{}, processor)

		rec := postForm(t, engine, signedForm())

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Zero(t, processor.vendorCalls.Load())
	})

	t.Run("dispatch failure returns 500, not 401", func(t *testing.T) {
		processor := &stubProcessor{err: errors.New("downstream boom")}
		engine := vendorRouter(webhook.NewMemoryStore(), processor)

		rec := postForm(t, engine, signedForm())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"processing failed"}`, rec.Body.String())
	})
}
