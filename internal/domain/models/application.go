package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationAnswer pairs a settings-defined question with the applicant's
// answer, captured at submission time so later question edits don't rewrite
// history.
type ApplicationAnswer struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// ExecutiveApplication is a submitted application for an executive role.
type ExecutiveApplication struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	RoleID    primitive.ObjectID  `bson:"role_id" json:"role_id"`
	Answers   []ApplicationAnswer `bson:"answers,omitempty" json:"answers,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
