package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval states for an associate-member (partner) application.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ValidApprovalStatus reports whether s is a known approval state.
func ValidApprovalStatus(s string) bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// AssociateMember is an organization profile: a partner application that,
// once created, can sign in as an associate account. Its login credentials
// are mirrored into a paired Credential document; CredentialID is the stable
// cross-reference, LinkedEmail-style matching by OrgEmail is the legacy
// fallback when the id is missing.
type AssociateMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OrgName   string             `bson:"org_name"`
	OrgNameCI string             `bson:"org_name_ci"` // folded, backs the unique index
	LoginID   string             `bson:"login_id"`
	LoginIDCI string             `bson:"login_id_ci"`
	// SecretHash mirrors the paired Credential's hash. Never the raw secret.
	SecretHash     string              `bson:"secret_hash"`
	OrgEmail       string              `bson:"org_email"`
	ApprovalStatus string              `bson:"approval_status"` // pending | approved | rejected
	ApprovedAt     *time.Time          `bson:"approved_at,omitempty"`
	Role           string              `bson:"role"` // always "associate"
	CredentialID   *primitive.ObjectID `bson:"credential_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}
