package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is a captured prospective-customer contact, created before any
// authentication happens. Deduplicated by phone; never updated or deleted
// by the storefront.
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// CreateLeadRequest is the lead-capture form payload.
type CreateLeadRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}
