package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductSnapshot is the denormalized copy of product details frozen onto
// an order at creation time. Later product edits never change it.
type ProductSnapshot struct {
	Name  string   `bson:"name" json:"name"`
	Image []string `bson:"image" json:"image"`
}

// Order is one purchased line item. A multi-item checkout produces one
// Order row per line item, not a single aggregate order. Rows are
// immutable after insert and are never deleted.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID         string             `bson:"order_id" json:"order_id"` // "ORD-" + uuid
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID       primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductDetails  ProductSnapshot    `bson:"product_details" json:"product_details"`
	PaymentID       string             `bson:"payment_id" json:"payment_id"` // empty for cash on delivery
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	DeliveryAddress primitive.ObjectID `bson:"delivery_address" json:"delivery_address"`
	SubTotalAmt     float64            `bson:"subtotal_amt" json:"subtotal_amt"`
	TotalAmt        float64            `bson:"total_amt" json:"total_amt"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// OrderDetails is an order with its delivery address expanded, as produced
// by the listing aggregation.
type OrderDetails struct {
	Order   `bson:",inline"`
	Address Address `bson:"address" json:"address"`
}

// PaymentStatusCOD is the payment status stamped on cash-on-delivery
// orders. Provider-mediated orders carry the provider's status string.
const PaymentStatusCOD = "CASH ON DELIVERY"
