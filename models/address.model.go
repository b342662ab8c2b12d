package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a user's delivery address. Deleting disables the
// address (status=false) rather than removing the document, so historical
// orders keep a resolvable reference.
type Address struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	AddressLine string             `bson:"address_line" json:"address_line"`
	City        string             `bson:"city" json:"city"`
	State       string             `bson:"state" json:"state"`
	Pincode     string             `bson:"pincode" json:"pincode"`
	Country     string             `bson:"country" json:"country"`
	Mobile      string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Status      bool               `bson:"status" json:"status"`
}
