package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password,omitempty" json:"-"`
	Avatar            string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Mobile            string               `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Role              string               `bson:"role" json:"role"` // "user" or "admin"
	IsVerified        bool                 `bson:"is_verified" json:"is_verified"`
	VerificationToken string               `bson:"verification_token" json:"-"`
	ShoppingCart      []primitive.ObjectID `bson:"shopping_cart" json:"shopping_cart"`
	AddressDetails    []primitive.ObjectID `bson:"address_details" json:"address_details"`
}
