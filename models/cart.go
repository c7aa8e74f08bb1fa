package models

import "time"

// CartItem is one line of a user's cart, keyed by (userId, productId).
// Name, price and image are snapshotted from the product at add time.
type CartItem struct {
	UserID    string    `bson:"userId" json:"-"`
	ProductID string    `bson:"productId" json:"productId"`
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	ImageURL  string    `bson:"imageUrl" json:"imageUrl"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

// CartView is what the cart screen renders: items, the badge count and
// the subtotal, all recomputed from the store on every read.
type CartView struct {
	Items    []CartItem `json:"items"`
	Count    int64      `json:"count"`
	Subtotal float64    `json:"subtotal"`
}
