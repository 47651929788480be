package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExecutiveRole is a board position definition (title + blurb) that
// applicants apply for.
type ExecutiveRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
