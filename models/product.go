package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is created and edited only through the admin console.
// sellingPrice <= mrp is expected but not enforced.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	MRP          float64            `bson:"mrp" json:"mrp"`
	SellingPrice float64            `bson:"sellingPrice" json:"sellingPrice"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	IsNewArrival bool               `bson:"isNewArrival" json:"isNewArrival"`
	Badge        string             `bson:"badge,omitempty" json:"badge,omitempty"`
	ImageURL     string             `bson:"imageUrl" json:"imageUrl"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Category groups products; products reference it by id.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
