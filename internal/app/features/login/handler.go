// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"

	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	loginstore "github.com/memberhub/memberhub/internal/app/store/logins"
	memberstore "github.com/memberhub/memberhub/internal/app/store/members"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/normalize"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Creds    *credentialstore.Store
	Members  *memberstore.Store
	Logins   *loginstore.Store
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.Limiter
	Log      *zap.Logger
}

func NewHandler(
	creds *credentialstore.Store,
	members *memberstore.Store,
	logins *loginstore.Store,
	audit *auditlog.Logger,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Creds:    creds,
		Members:  members,
		Logins:   logins,
		AuditLog: audit,
		Limiter:  limiter,
		Log:      logger,
	}
}

type loginRequest struct {
	LoginID string `json:"login_id"`
	Secret  string `json:"secret"`
}

type loginResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	LoginID string `json:"login_id"`
	Role    string `json:"role"`
}

// failedLoginMessage is deliberately identical for unknown login ids and
// wrong secrets so callers cannot probe which accounts exist.
const failedLoginMessage = "invalid login id or password"

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	loginID := normalize.LoginID(req.LoginID)
	if loginID == "" || req.Secret == "" {
		httpjson.Respond(w, http.StatusBadRequest, map[string]string{"error": "login_id and secret are required"})
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow(loginID) {
		h.AuditLog.LoginFailedRateLimit(r.Context(), r, loginID)
		httpjson.Respond(w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts; try again later"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cred, err := h.Creds.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
			h.recordFailure(ctx, r, nil, loginID)
			httpjson.Respond(w, http.StatusUnauthorized, map[string]string{"error": failedLoginMessage})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if !credentialstore.CheckSecret(cred.SecretHash, req.Secret) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, cred.ID, loginID)
		h.recordFailure(ctx, r, &cred.ID, loginID)
		httpjson.Respond(w, http.StatusUnauthorized, map[string]string{"error": failedLoginMessage})
		return
	}

	name := ""
	if cred.Role == models.RoleAssociate {
		// Associates must be approved before they can sign in.
		profile, err := h.Members.GetByLoginID(ctx, loginID)
		if err == nil {
			name = profile.OrgName
			if profile.ApprovalStatus != models.ApprovalApproved {
				h.AuditLog.LoginFailedNotApproved(ctx, r, cred.ID, loginID, profile.ApprovalStatus)
				h.recordFailure(ctx, r, &cred.ID, loginID)
				httpjson.Respond(w, http.StatusForbidden, map[string]string{"error": "your application has not been approved yet"})
				return
			}
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:      cred.ID.Hex(),
		Name:    name,
		LoginID: cred.LoginID,
		Email:   cred.LinkedEmail,
		Role:    cred.Role,
	}); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		httpjson.Respond(w, http.StatusInternalServerError, map[string]string{"error": "could not establish session"})
		return
	}

	// Best-effort: a failed record or audit write never fails the login.
	if _, err := h.Logins.RecordSuccess(ctx, r, cred.ID, cred.LoginID); err != nil {
		h.Log.Warn("login record write failed", zap.Error(err))
	}
	h.AuditLog.LoginSuccess(ctx, r, cred.ID, cred.Role, cred.LoginID)

	httpjson.Respond(w, http.StatusOK, loginResponse{
		ID:      cred.ID.Hex(),
		Name:    name,
		LoginID: cred.LoginID,
		Role:    cred.Role,
	})
}

func (h *Handler) recordFailure(ctx context.Context, r *http.Request, userID *primitive.ObjectID, loginID string) {
	if err := h.Logins.RecordFailure(ctx, r, userID, loginID); err != nil {
		h.Log.Warn("login failure record write failed", zap.Error(err))
	}
}
