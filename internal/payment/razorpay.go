// Package payment wraps the Razorpay order API used by the premium upgrade.
package payment

import (
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/mavidal/fintrack-be/internal/config"
)

// Order is the subset of a gateway order the frontend needs to start checkout.
type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// Gateway creates payment orders.
type Gateway interface {
	CreateOrder(amountPaise int64, currency string) (Order, error)
}

// RazorpayGateway implements Gateway against the Razorpay REST API.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpay creates a gateway client from the application config.
func NewRazorpay(cfg *config.Config) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		keyID:  cfg.RazorpayKeyID,
	}
}

// CreateOrder creates a one-off order for the given amount.
func (g *RazorpayGateway) CreateOrder(amountPaise int64, currency string) (Order, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("create razorpay order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return Order{}, fmt.Errorf("razorpay order response missing id")
	}

	return Order{
		ID:       id,
		Amount:   amountPaise,
		Currency: currency,
		KeyID:    g.keyID,
	}, nil
}
