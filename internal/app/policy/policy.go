// Package policy is the single source of truth for route authorization.
//
// Each route declares a sensitivity class once in its feature's route table;
// Authorize renders the decision for a resolved identity. It is a pure
// function of its inputs — no session lookups, no database access — so the
// full decision table is testable in isolation. Callers translate a deny
// into 401 (NoSession) or 403 (WrongRole, NotOwner); the response body for a
// SelfOrAdmin deny must not reveal whether the target record exists.
package policy

import (
	"github.com/dalemusser/waffle/pantry/text"
)

// Sensitivity is the authorization tier assigned to a route+method pair.
type Sensitivity int

const (
	// Public routes require no identity.
	Public Sensitivity = iota
	// Authenticated routes accept any resolved identity.
	Authenticated
	// AdminOnly routes require the admin role.
	AdminOnly
	// SelfOrAdmin routes require admin (scope "any") or the associate whose
	// login id matches the record being acted on (scope "self").
	SelfOrAdmin
)

// Scope is whether an authorized caller may act on any record or only their own.
type Scope string

const (
	ScopeAny  Scope = "any"
	ScopeSelf Scope = "self"
)

// Reason explains a decision.
type Reason string

const (
	ReasonOK        Reason = "ok"
	ReasonNoSession Reason = "no_session"
	ReasonWrongRole Reason = "wrong_role"
	ReasonNotOwner  Reason = "not_owner"
)

// Identity is a resolved session identity. A nil *Identity means no session.
type Identity struct {
	SubjectID string
	Role      string // admin | associate | member
	Username  string // the login id
	Email     string
}

// Decision is the rendered authorization outcome. Scope is empty unless the
// decision both allows and is identity-scoped (Public allows with no scope).
type Decision struct {
	Allow  bool
	Scope  Scope
	Reason Reason
}

// Authorize decides whether ident may proceed on a route of the given
// sensitivity. ownerLoginID is the login id owning the target record and is
// only consulted for SelfOrAdmin; pass "" when the route has no owner.
//
// An associate acting on another identity's record is denied outright
// (NotOwner) — identical handling whether or not the record exists.
func Authorize(class Sensitivity, ident *Identity, ownerLoginID string) Decision {
	switch class {
	case Public:
		return Decision{Allow: true, Reason: ReasonOK}

	case Authenticated:
		if ident == nil {
			return Decision{Reason: ReasonNoSession}
		}
		return Decision{Allow: true, Scope: ScopeAny, Reason: ReasonOK}

	case AdminOnly:
		if ident == nil {
			return Decision{Reason: ReasonNoSession}
		}
		if ident.Role != "admin" {
			return Decision{Reason: ReasonWrongRole}
		}
		return Decision{Allow: true, Scope: ScopeAny, Reason: ReasonOK}

	case SelfOrAdmin:
		if ident == nil {
			return Decision{Reason: ReasonNoSession}
		}
		if ident.Role == "admin" {
			return Decision{Allow: true, Scope: ScopeAny, Reason: ReasonOK}
		}
		if ident.Role != "associate" {
			return Decision{Reason: ReasonWrongRole}
		}
		if ownerLoginID == "" || text.Fold(ident.Username) != text.Fold(ownerLoginID) {
			return Decision{Reason: ReasonNotOwner}
		}
		return Decision{Allow: true, Scope: ScopeSelf, Reason: ReasonOK}
	}

	// Unknown class: fail closed.
	return Decision{Reason: ReasonWrongRole}
}
