package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus tracks fulfilment of an order.
type OrderStatus string

const (
	// OrderStatusPlaced is the status every new order starts in.
	OrderStatusPlaced OrderStatus = "placed"
	// OrderStatusShipped is set by the explicit ship update.
	OrderStatusShipped OrderStatus = "shipped"
)

// Order is a purchase placed against a product. Email is the owner's
// identity key and drives self-scoped listing.
type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	Status      OrderStatus        `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
