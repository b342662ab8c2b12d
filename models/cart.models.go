package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one row in the cartproducts collection. The user's cart is
// the set of rows keyed by user_id, mirrored by the id list on
// User.ShoppingCart.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// CartItemDetails is a cart row with its product expanded, as returned by
// the cart read path and as submitted by the client at checkout.
type CartItemDetails struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Product  Product            `bson:"product" json:"productId"`
}
