package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner is a display partner shown on the public partners page. Order is a
// dense zero-based rank maintained by the reorder operation; documents not
// mentioned in a reorder keep their previous rank.
type Partner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	NameCI      string             `bson:"name_ci"`
	Description string             `bson:"description"`
	Website     string             `bson:"website"`
	Color       string             `bson:"color"`
	LogoURL     string             `bson:"logo_url"`
	Order       int                `bson:"order"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}
