// internal/app/features/partnerapps/handler.go
package partnerapps

// Partner applications are the associate-member profiles viewed through the
// self-or-admin lens: an admin may act on any application, an associate only
// on the one whose login id matches their session.

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	memberstore "github.com/memberhub/memberhub/internal/app/store/members"
	"github.com/memberhub/memberhub/internal/app/policy"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Members *memberstore.Store
	Log     *zap.Logger
}

func NewHandler(members *memberstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Members: members, Log: logger}
}

type applicationView struct {
	ID             string     `json:"id"`
	OrgName        string     `json:"org_name"`
	LoginID        string     `json:"login_id"`
	OrgEmail       string     `json:"org_email"`
	ApprovalStatus string     `json:"approval_status"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func view(m models.AssociateMember) applicationView {
	return applicationView{
		ID:             m.ID.Hex(),
		OrgName:        m.OrgName,
		LoginID:        m.LoginID,
		OrgEmail:       m.OrgEmail,
		ApprovalStatus: m.ApprovalStatus,
		ApprovedAt:     m.ApprovedAt,
		CreatedAt:      m.CreatedAt,
	}
}

// load fetches the target profile and renders the self-or-admin decision for
// it. The deny responses are identical whether or not the record exists, so
// a non-owner cannot enumerate ids.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.AssociateMember, bool) {
	ident := authz.Identity(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		// Malformed id: render the decision with no owner so the caller
		// sees the same deny as for someone else's record.
		if d := policy.Authorize(policy.SelfOrAdmin, ident, ""); !d.Allow {
			h.deny(w, d)
			return models.AssociateMember{}, false
		}
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return models.AssociateMember{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if d := policy.Authorize(policy.SelfOrAdmin, ident, ""); !d.Allow {
				h.deny(w, d)
				return models.AssociateMember{}, false
			}
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "application not found"})
			return models.AssociateMember{}, false
		}
		httpjson.Error(w, h.Log, err)
		return models.AssociateMember{}, false
	}

	if d := policy.Authorize(policy.SelfOrAdmin, ident, profile.LoginID); !d.Allow {
		h.deny(w, d)
		return models.AssociateMember{}, false
	}
	return *profile, true
}

func (h *Handler) deny(w http.ResponseWriter, d policy.Decision) {
	if d.Reason == policy.ReasonNoSession {
		httpjson.Unauthorized(w)
		return
	}
	httpjson.Forbidden(w)
}

// ServeGet handles GET /partner-applications/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.Respond(w, http.StatusOK, view(profile))
}

// HandleUpdate handles PUT /partner-applications/{id}. Owners may update
// their own contact fields; admins any.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.load(w, r)
	if !ok {
		return
	}

	var upd memberstore.CredentialUpdate
	if err := httpjson.Decode(w, r, &upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	updated, err := h.Members.UpdateCredential(ctx, profile.ID, upd)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, view(updated))
}

// HandleDelete handles DELETE /partner-applications/{id}. Removes the
// profile and its paired Identity Record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.load(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Members.DeleteWithCredential(ctx, profile.ID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeMe handles GET /partner-applications/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, loginID, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := h.Members.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "no application for this account"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, view(*profile))
}
