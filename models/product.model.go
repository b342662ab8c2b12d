package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product
type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Image       []string             `bson:"image" json:"image"`
	Category    []primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Unit        string               `bson:"unit,omitempty" json:"unit,omitempty"`
	Stock       int                  `bson:"stock" json:"stock"`
	Price       float64              `bson:"price" json:"price"`
	Discount    float64              `bson:"discount" json:"discount"` // percent, 0 when unset
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Publish     bool                 `bson:"publish" json:"publish"`
}
