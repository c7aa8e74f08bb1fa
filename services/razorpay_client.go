package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

// PaymentGateway is the boundary to the external payment provider. The
// workflow only needs to open an order for an amount and later check that
// a payment callback really came from the gateway.
type PaymentGateway interface {
	// CreateOrder registers an order for amount (in the smallest currency
	// subunit) and returns the gateway's order id.
	CreateOrder(amount int64, currency, receipt string) (string, error)
	// VerifySignature reports whether the callback signature matches the
	// (orderID, paymentID) pair.
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// RazorpayGateway implements PaymentGateway using the Razorpay API.
type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}
	id, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("razorpay order create: response has no id")
	}
	return id, nil
}

// VerifySignature checks the HMAC-SHA256 of "orderID|paymentID" against the
// signature Razorpay handed to the client.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}
