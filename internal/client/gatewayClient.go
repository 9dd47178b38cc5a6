package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"storefront-backend/internal/config"
	"storefront-backend/internal/model"
)

// PaymentGateway is the capability the payment service depends on. Tests
// substitute a fake; the HTTP implementation below talks to the provider.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req *InitializeRequest) (*model.GatewayInitializeData, error)
	VerifyTransaction(ctx context.Context, reference string) (*model.GatewayVerifyData, error)
	VerifyWebhookSignature(signature string, body []byte) error
}

type InitializeRequest struct {
	AmountMinor int64  // minor units (kobo/cents)
	Email       string
	Reference   string
	CallbackURL string
}

type gatewayClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
}

func NewGatewayClient(gatewayCfg *config.Gateway) PaymentGateway {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: gatewayCfg.Timeout,
		},
		baseApiURL:    gatewayCfg.BaseApiURL,
		secretKey:     gatewayCfg.SecretKey,
		webhookSecret: gatewayCfg.WebhookSecret,
	}
}

type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *gatewayClientImpl) InitializeTransaction(ctx context.Context, initReq *InitializeRequest) (*model.GatewayInitializeData, error) {
	payload := map[string]interface{}{
		"amount":    initReq.AmountMinor,
		"email":     initReq.Email,
		"reference": initReq.Reference,
	}
	if initReq.CallbackURL != "" {
		payload["callback_url"] = initReq.CallbackURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/transaction/initialize",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	var data model.GatewayInitializeData
	if err := c.do(req, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

func (c *gatewayClientImpl) VerifyTransaction(ctx context.Context, reference string) (*model.GatewayVerifyData, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseApiURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	var data model.GatewayVerifyData
	if err := c.do(req, &data); err != nil {
		return nil, err
	}

	return &data, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature the gateway sends
// with every webhook push. An empty configured secret disables the check.
func (c *gatewayClientImpl) VerifyWebhookSignature(signature string, body []byte) error {
	if c.webhookSecret == "" {
		return nil
	}

	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}

func (c *gatewayClientImpl) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if !envelope.Status {
		return fmt.Errorf("gateway rejected request: %s", envelope.Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode gateway data: %w", err)
	}

	return nil
}
