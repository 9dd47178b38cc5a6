package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (PaymentGateway, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw := NewGatewayClient(&config.Gateway{
		BaseApiURL:    srv.URL,
		SecretKey:     "sk_test_secret",
		WebhookSecret: "whsec_test",
		Timeout:       5 * time.Second,
	})
	return gw, srv
}

func TestGatewayClient_InitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.test/abc123",
				"access_code":       "abc123",
				"reference":         "ref-1",
			},
		})
	})

	data, err := gw.InitializeTransaction(context.Background(), &InitializeRequest{
		AmountMinor: 19350,
		Email:       "ada@example.com",
		Reference:   "ref-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.EqualValues(t, 19350, gotPayload["amount"])
	assert.Equal(t, "ada@example.com", gotPayload["email"])
	assert.Equal(t, "https://checkout.test/abc123", data.AuthorizationURL)
	assert.Equal(t, "ref-1", data.Reference)
}

func TestGatewayClient_InitializeTransaction_HTTPError(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":false,"message":"Invalid key"}`, http.StatusUnauthorized)
	})

	_, err := gw.InitializeTransaction(context.Background(), &InitializeRequest{
		AmountMinor: 100,
		Email:       "ada@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway error 401")
}

func TestGatewayClient_InitializeTransaction_RejectedEnvelope(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid amount",
		})
	})

	_, err := gw.InitializeTransaction(context.Background(), &InitializeRequest{
		AmountMinor: 100,
		Email:       "ada@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid amount")
}

func TestGatewayClient_VerifyTransaction(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref-1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "ref-1",
				"amount":    19350,
			},
		})
	})

	data, err := gw.VerifyTransaction(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "success", data.Status)
	assert.EqualValues(t, 19350, data.Amount)
}

func TestGatewayClient_VerifyWebhookSignature(t *testing.T) {
	gw, _ := newTestGateway(t, nil)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)
	mac := hmac.New(sha512.New, []byte("whsec_test"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.NoError(t, gw.VerifyWebhookSignature(valid, body))
	assert.Error(t, gw.VerifyWebhookSignature("deadbeef", body))
	assert.Error(t, gw.VerifyWebhookSignature("", body))
}

func TestGatewayClient_VerifyWebhookSignature_DisabledWithoutSecret(t *testing.T) {
	gw := NewGatewayClient(&config.Gateway{Timeout: time.Second})

	assert.NoError(t, gw.VerifyWebhookSignature("anything", []byte("body")))
}
