package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/voicebridge/payhub/lib/service"
	"github.com/ziflex/lecho/v3"
)

func newWebhookTestContext(t *testing.T, secret, body, signature string) (echo.Context, *httptest.ResponseRecorder, *WebhookController) {
	t.Helper()
	e := echo.New()
	e.Logger = lecho.New(io.Discard)
	req := httptest.NewRequest(http.MethodPost, "/v2/webhooks/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()

	svc := &service.PayhubService{
		Config: &service.Config{WebhookSecret: secret},
		Logger: lecho.New(io.Discard),
	}
	return e.NewContext(req, rec), rec, NewWebhookController(svc)
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	c, rec, ctrl := newWebhookTestContext(t, "s3cret", `{"status":"paid"}`, "deadbeef")

	assert.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookMalformedPayloadGets200Rejection(t *testing.T) {
	// a payload with no parseable order reference must not trigger provider
	// retries, so the rejection still rides on a 200
	body := `{"status":"paid"}`
	c, rec, ctrl := newWebhookTestContext(t, "s3cret", body, sign("s3cret", body))

	assert.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rejected":true`)
}

func TestWebhookSignatureOptionalWhenUnconfigured(t *testing.T) {
	c, rec, ctrl := newWebhookTestContext(t, "", `not json`, "")

	assert.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rejected":true`)
}
