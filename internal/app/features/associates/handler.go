// internal/app/features/associates/handler.go
package associates

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	memberstore "github.com/memberhub/memberhub/internal/app/store/members"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/mailer"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Members  *memberstore.Store
	AuditLog *auditlog.Logger
	Mailer   *mailer.Mailer
	SiteName string
	BaseURL  string
	// Limiter throttles the public signup endpoint by client IP. Nil
	// disables throttling.
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(members *memberstore.Store, audit *auditlog.Logger, mail *mailer.Mailer, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Members:  members,
		AuditLog: audit,
		Mailer:   mail,
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// HandleCreate handles POST /associate-members. Public: this is the signup
// endpoint for new associate-member organizations.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in memberstore.CreateInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	profile, err := h.Members.CreateWithCredential(ctx, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var actorID *primitive.ObjectID
	if _, _, uid, ok := authz.UserCtx(r); ok {
		actorID = &uid
	}
	h.AuditLog.MemberCreated(ctx, r, profile.ID, actorID, profile.OrgName)

	httpjson.Respond(w, http.StatusCreated, sanitized(profile))
}

// ServeList handles GET /associate-members. Admin only; ?status= filters by
// approval status.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Members.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]memberView, 0, len(list))
	for _, m := range list {
		out = append(out, sanitized(m))
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// ServeMe handles GET /associate-members/me: the signed-in associate's own
// profile, located by their session login id.
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
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "no profile for this account"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, sanitized(*profile))
}

// HandleUpdate handles PUT /associate-members/{id}. Admin only. Changes to
// the secret, login id, or email propagate to the paired Identity Record.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "associate member not found"})
		return
	}

	var upd memberstore.CredentialUpdate
	if err := httpjson.Decode(w, r, &upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	profile, err := h.Members.UpdateCredential(ctx, id, upd)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.MemberUpdated(ctx, r, uid, profile.ID, changedFields(upd))
	}
	httpjson.Respond(w, http.StatusOK, sanitized(profile))
}

// HandleDelete handles DELETE /associate-members/{id}. Admin only. Removes
// the profile and its paired Identity Record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "associate member not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	prev, err := h.Members.GetByID(ctx, id)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Members.DeleteWithCredential(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.MemberDeleted(ctx, r, uid, id, prev.OrgName)
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleApprove handles POST /associate-members/{id}/approve. Admin only.
// The notification email is best-effort: its failure never undoes the
// approval.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "associate member not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Members.Approve(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.MemberApproved(ctx, r, uid, profile.ID, profile.OrgName)
	}
	h.sendDecisionEmail(*profile, true)

	httpjson.Respond(w, http.StatusOK, sanitized(*profile))
}

// HandleReject handles POST /associate-members/{id}/reject. Admin only.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "associate member not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Members.Reject(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.MemberRejected(ctx, r, uid, profile.ID, profile.OrgName)
	}
	h.sendDecisionEmail(*profile, false)

	httpjson.Respond(w, http.StatusOK, sanitized(*profile))
}

func (h *Handler) sendDecisionEmail(profile models.AssociateMember, approved bool) {
	email := decisionEmail(h.SiteName, h.BaseURL, profile, approved)
	if err := h.Mailer.Send(email); err != nil {
		h.Log.Warn("decision email send failed",
			zap.String("org_name", profile.OrgName), zap.Error(err))
	}
}

// decisionEmail builds the approval or rejection notification addressed to
// the organization's contact email.
func decisionEmail(siteName, baseURL string, profile models.AssociateMember, approved bool) mailer.Email {
	data := mailer.ApprovalEmailData{
		SiteName: siteName,
		OrgName:  profile.OrgName,
		LoginURL: baseURL + "/login",
	}
	var email mailer.Email
	if approved {
		email = mailer.BuildApprovalEmail(data)
	} else {
		email = mailer.BuildRejectionEmail(data)
	}
	email.To = profile.OrgEmail
	return email
}

func changedFields(upd memberstore.CredentialUpdate) string {
	fields := ""
	add := func(name string) {
		if fields != "" {
			fields += ","
		}
		fields += name
	}
	if upd.OrgName != "" {
		add("org_name")
	}
	if upd.OrgEmail != "" {
		add("org_email")
	}
	if upd.LoginID != "" {
		add("login_id")
	}
	if upd.Secret != "" {
		add("secret")
	}
	return fields
}
