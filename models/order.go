package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Only the admin console moves an order between these.
const (
	OrderStatusPlaced     = "Placed"
	OrderStatusDispatched = "Dispatched"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Payment methods.
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"
)

// ValidOrderStatus reports whether s is one of the four order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusDispatched, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a point-in-time copy of a product line at checkout.
// Later product edits must never change it.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// CustomerInfo is the shipping contact frozen onto the order.
type CustomerInfo struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
}

// PaymentDetails carries the gateway reference for online payments.
type PaymentDetails struct {
	RazorpayPaymentID string `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
}

// Order is written exactly once per successful checkout and is immutable
// afterwards except for Status.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"userId" json:"userId"`
	CustomerInfo   CustomerInfo       `bson:"customerInfo" json:"customerInfo"`
	Items          []OrderItem        `bson:"items" json:"items"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`
	Status         string             `bson:"status" json:"status"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentDetails *PaymentDetails    `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	OrderDate      time.Time          `bson:"orderDate" json:"orderDate"`
}
