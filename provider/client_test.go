package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

func newTestClient(serverUrl string) *Client {
	return NewClient(serverUrl, "key_id", "key_secret", 5*time.Second, lecho.New(io.Discard))
}

func TestCreatePaymentLink(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuthUser, gotAuthPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        "plink_1",
			"short_url": "https://pay.test/plink_1",
			"status":    "created",
		})
	}))
	defer server.Close()

	link, err := newTestClient(server.URL).CreatePaymentLink(context.Background(), CreateLinkParams{
		Amount:      5000,
		Currency:    "INR",
		ReferenceId: "nv-42-7",
		Description: "Balance top-up nv-42-7",
		CallbackUrl: "https://payhub.test/v2/webhooks/payments",
	})
	require.NoError(t, err)
	assert.Equal(t, "plink_1", link.ID)
	assert.Equal(t, "https://pay.test/plink_1", link.URL)

	assert.Equal(t, "key_id", gotAuthUser)
	assert.Equal(t, "key_secret", gotAuthPass)
	assert.Equal(t, "nv-42-7", gotBody["reference_id"])
	assert.Equal(t, "Balance top-up nv-42-7", gotBody["description"])
	assert.Equal(t, "https://payhub.test/v2/webhooks/payments", gotBody["callback_url"])
}

func TestCreatePaymentLinkAlternateUrlField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment_link_id":  "plink_2",
			"payment_link_url": "https://pay.test/plink_2",
		})
	}))
	defer server.Close()

	link, err := newTestClient(server.URL).CreatePaymentLink(context.Background(), CreateLinkParams{Amount: 100, Currency: "INR", ReferenceId: "nv-1-1"})
	require.NoError(t, err)
	assert.Equal(t, "plink_2", link.ID)
	assert.Equal(t, "https://pay.test/plink_2", link.URL)
}

func TestCreatePaymentLinkNoUrl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "plink_3"})
	}))
	defer server.Close()

	link, err := newTestClient(server.URL).CreatePaymentLink(context.Background(), CreateLinkParams{Amount: 100, Currency: "INR", ReferenceId: "nv-1-2"})
	assert.ErrorIs(t, err, ErrNoLinkUrl)
	// raw response is kept for the invoice diagnostic
	require.NotNil(t, link)
	assert.Equal(t, "plink_3", link.ID)
}

func TestCreatePaymentLinkRetriesTransientFaults(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        "plink_4",
			"short_url": "https://pay.test/plink_4",
		})
	}))
	defer server.Close()

	link, err := newTestClient(server.URL).CreatePaymentLink(context.Background(), CreateLinkParams{Amount: 100, Currency: "INR", ReferenceId: "nv-1-3"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "https://pay.test/plink_4", link.URL)
}

func TestCreatePaymentLinkDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreatePaymentLink(context.Background(), CreateLinkParams{Amount: 100, Currency: "INR", ReferenceId: "nv-1-4"})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
