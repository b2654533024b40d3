package paychangu

import (
	"fmt"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/shopspring/decimal"
)

// CheckoutCustomer identifies the payer on the hosted checkout page.
type CheckoutCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// CheckoutCustomization controls the hosted checkout presentation.
type CheckoutCustomization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CheckoutRequest is the provider's hosted-checkout request schema.
type CheckoutRequest struct {
	PublicKey     string                `json:"public_key"`
	TxRef         string                `json:"tx_ref"`
	Amount        string                `json:"amount"`
	Currency      string                `json:"currency"`
	CallbackURL   string                `json:"callback_url"`
	ReturnURL     string                `json:"return_url"`
	Customer      CheckoutCustomer      `json:"customer"`
	Customization CheckoutCustomization `json:"customization"`
}

// PayloadBuilder translates internal orders into provider checkout requests.
// Construction is pure: the hosted checkout UI performs the actual charge and
// the webhook confirms it.
type PayloadBuilder struct {
	cfg     config.PayChanguConfig
	baseURL string
}

// NewPayloadBuilder builds a checkout payload builder.
func NewPayloadBuilder(cfg config.PayChanguConfig, appCfg config.AppConfig) (*PayloadBuilder, error) {
	if cfg.PublicKey == "" {
		return nil, fmt.Errorf("paychangu public key required")
	}
	return &PayloadBuilder{
		cfg:     cfg,
		baseURL: strings.TrimRight(appCfg.BaseURL, "/"),
	}, nil
}

// CheckoutInput carries the order fields needed for the provider request.
type CheckoutInput struct {
	OrderID    int64
	Total      decimal.Decimal
	BuyerEmail string
	BuyerName  string
	CropName   string
}

// BuildCheckoutRequest maps an order into the provider schema.
func (b *PayloadBuilder) BuildCheckoutRequest(input CheckoutInput) CheckoutRequest {
	return CheckoutRequest{
		PublicKey:   b.cfg.PublicKey,
		TxRef:       TxRef(b.cfg.TxRefPrefix, input.OrderID),
		Amount:      input.Total.StringFixed(2),
		Currency:    b.cfg.Currency,
		CallbackURL: b.baseURL + "/api/v1/payments/webhook",
		ReturnURL:   b.baseURL + "/api/v1/payments/confirmation",
		Customer: CheckoutCustomer{
			Email:     input.BuyerEmail,
			FirstName: input.BuyerName,
		},
		Customization: CheckoutCustomization{
			Title:       "AgriLink Malawi",
			Description: fmt.Sprintf("Payment for %s (order %d)", input.CropName, input.OrderID),
		},
	}
}
