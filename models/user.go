package models

import "time"

// User is keyed by the Firebase UID, not a Mongo ObjectID, so the identity
// provider stays the owner of the id space.
type User struct {
	UID       string    `bson:"_id" json:"uid"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
