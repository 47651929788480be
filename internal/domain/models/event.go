package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration is one attendee on an Event. Within a single event there is at
// most one registration per distinct UserEmail; the storage layer's
// set-semantics insert is the authoritative guard.
type Registration struct {
	UserEmail     string    `bson:"user_email" json:"user_email"`
	Name          string    `bson:"name" json:"name"`
	RegisteredAt  time.Time `bson:"registered_at" json:"registered_at"`
	Authenticated bool      `bson:"authenticated" json:"authenticated"`
	Comments      string    `bson:"comments,omitempty" json:"comments,omitempty"`
}

// Event is a public event with an embedded registration set.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Date          time.Time          `bson:"date" json:"date"`
	Time          string             `bson:"time" json:"time"` // display time, e.g. "18:30"
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
	Registrations []Registration     `bson:"registrations,omitempty" json:"registrations,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"` // creator
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
