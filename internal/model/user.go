package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the coarse permission tier attached to a user record.
type Role string

const (
	// RoleUser is the default role given on self-registration.
	RoleUser Role = "user"
	// RoleAdmin unlocks admin-only operations and unfiltered reads.
	RoleAdmin Role = "admin"
)

// User represents an application account. Email is the external identity
// key: it is unique and joins the verified token identity to a role.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Role      Role               `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
