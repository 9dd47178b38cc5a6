package model

// Wire types for the payment gateway's JSON API and webhook pushes.

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

type GatewayWebhookEvent struct {
	Event string             `json:"event"`
	Data  GatewayWebhookData `json:"data"`
}

type GatewayWebhookData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"` // minor units
}

type GatewayInitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type GatewayVerifyData struct {
	Status    string `json:"status"` // "success", "failed", "abandoned", ...
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // minor units
}
