package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStatus tracks a product through moderation.
type ProductStatus string

const (
	// ProductStatusPending is the status every new product starts in.
	ProductStatusPending ProductStatus = "pending"
	// ProductStatusApproved marks a product visible for sale.
	ProductStatusApproved ProductStatus = "approved"
)

// Product is a catalog entry created by an authenticated caller.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	Status      ProductStatus      `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
