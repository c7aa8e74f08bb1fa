package models

import "time"

// Checkout sources.
const (
	CheckoutSourceCart   = "cart"
	CheckoutSourceBuyNow = "buy-now"
)

// Checkout session states. The flow is linear: a session is created in
// AwaitingPayment (address already collected), moves to OrderPersisted on a
// confirmed payment, and stays in AwaitingPayment across failed attempts.
const (
	CheckoutStateAwaitingPayment = "AwaitingPayment"
	CheckoutStateOrderPersisted  = "OrderPersisted"
)

// BuyNowToken is the transient single-item checkout marker, the server-side
// replacement for the old sessionStorage "productToCheckout" blob.
type BuyNowToken struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutSession carries one checkout attempt through the workflow. The
// line items are frozen when the session is created so later price edits
// never leak into the order. OrderID is the Mongo id the order will be
// written under; fixing it at session creation means every confirm of the
// session targets the same document, so the unique-id insert dedupes
// concurrent and retried confirms.
type CheckoutSession struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	Source          string       `json:"source"`
	State           string       `json:"state"`
	Items           []OrderItem  `json:"items"`
	TotalAmount     float64      `json:"totalAmount"`
	Customer        CustomerInfo `json:"customer"`
	RazorpayOrderID string       `json:"razorpayOrderId"`
	OrderID         string       `json:"orderId"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// BeginCheckoutRequest enters the workflow: a validated address plus the
// item source.
type BeginCheckoutRequest struct {
	Address string `json:"address" binding:"required"`
	Source  string `json:"source" binding:"required"`
}

// ConfirmPaymentRequest is the gateway callback payload forwarded by the
// client after the Razorpay overlay closes.
type ConfirmPaymentRequest struct {
	SessionID         string `json:"sessionId" binding:"required"`
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

// CheckoutResponse is what the client needs to open the payment overlay.
type CheckoutResponse struct {
	SessionID       string  `json:"sessionId"`
	RazorpayOrderID string  `json:"razorpayOrderId"`
	KeyID           string  `json:"keyId"`
	Amount          int64   `json:"amount"` // paise
	Currency        string  `json:"currency"`
	TotalAmount     float64 `json:"totalAmount"`
	PrefillName     string  `json:"prefillName"`
	PrefillContact  string  `json:"prefillContact"`
}
