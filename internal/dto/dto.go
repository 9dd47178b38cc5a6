package dto

import (
	"storefront-backend/internal/model"
	"storefront-backend/internal/pricing"
)

type AddCartItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items       []CartLine      `json:"items"`
	Totals      pricing.Totals  `json:"totals"`
	Suggestions []model.Product `json:"suggestions"`
}

type CartLine struct {
	ProductID   uint    `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DiscountPct float64 `json:"discountPct"`
	Quantity    int     `json:"quantity"`
}

type BillingAddressRequest struct {
	FullName string `json:"fullName"`
	LastName string `json:"lastName"`
	Company  string `json:"company"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

type CreateOrderRequest struct {
	BillingAddress BillingAddressRequest `json:"billingAddress"`
}

type ShareLinkResponse struct {
	URL string `json:"url"`
}

type InitiatePaymentRequest struct {
	OrderID uint    `json:"orderId"`
	Amount  float64 `json:"amount"`
	Email   string  `json:"email"`
}

type InitiatePaymentResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

type VerifyPaymentResponse struct {
	Verified bool `json:"verified"`
}
