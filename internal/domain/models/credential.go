package models

// Terminology: User Identifiers
//   - CredentialID / credential_id: The MongoDB ObjectID (_id) of the Identity Record
//   - LoginID / login_id: The human-readable string users type to log in

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried by an Identity Record. Associates are organization accounts
// (partner applications that can log in); members are executive-board users.
const (
	RoleAdmin     = "admin"
	RoleAssociate = "associate"
	RoleMember    = "member"
)

// ValidRole reports whether role is one of the known role tags.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAssociate, RoleMember:
		return true
	}
	return false
}

// Credential is the authentication Identity Record: the minimal document the
// login path needs to mint a session. Richer business data about the same
// real-world entity lives in a profile collection (AssociateMember,
// Executive); the two are kept denormalized-consistent by the stores.
type Credential struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LoginID   string             `bson:"login_id"`
	LoginIDCI string             `bson:"login_id_ci"` // folded, backs the unique index
	// SecretHash is always a bcrypt hash, never the raw secret.
	SecretHash  string    `bson:"secret_hash"`
	Role        string    `bson:"role"` // admin | associate | member
	LinkedEmail string    `bson:"linked_email"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}
