// Package authz bridges the session layer and the policy layer: it converts
// the request-context session user into the policy's Identity and offers the
// small role predicates handlers reach for.
package authz

import (
	"net/http"

	"github.com/memberhub/memberhub/internal/app/policy"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity returns the resolved policy identity for the request, or nil when
// no session is present. Role is normalized to lowercase so the policy's
// comparisons are stable.
func Identity(r *http.Request) *policy.Identity {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return nil
	}
	return &policy.Identity{
		SubjectID: u.ID,
		Role:      normalize.Role(u.Role),
		Username:  u.LoginID,
		Email:     u.Email,
	}
}

// UserCtx returns the user's role (lowercased), login id, Mongo ObjectID,
// and a found flag. If no user is present or the user ID is malformed, it
// returns "visitor", "", NilObjectID, false — ok=true always means a valid,
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, loginID string, userID primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "visitor", "", primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		return "visitor", "", primitive.NilObjectID, false
	}
	return normalize.Role(u.Role), u.LoginID, oid, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsAssociate reports whether the current request's user is an associate.
func IsAssociate(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "associate"
}
