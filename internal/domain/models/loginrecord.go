package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord captures one sign-in attempt for dashboards and auditing.
// SessionID correlates the record with the minted session.
type LoginRecord struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty"`
	LoginID   string              `bson:"login_id"`
	SessionID string              `bson:"session_id,omitempty"` // uuid, set on success
	IP        string              `bson:"ip"`
	Success   bool                `bson:"success"`
	CreatedAt time.Time           `bson:"created_at"`
}
