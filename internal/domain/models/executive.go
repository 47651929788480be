package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Executive is an executive-board / member profile shown on the public
// members page. Admin executives carry login credentials mirrored into a
// paired Credential document; plain members do not log in. Order is the same
// dense rank as Partner, scoped to its own collection.
type Executive struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	NameCI string             `bson:"name_ci"`
	// SecretHash is set only for executives who can log in.
	SecretHash   string              `bson:"secret_hash,omitempty"`
	Role         string              `bson:"role"` // admin | member
	Order        int                 `bson:"order"`
	CredentialID *primitive.ObjectID `bson:"credential_id,omitempty"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}
