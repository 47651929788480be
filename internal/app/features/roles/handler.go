// internal/app/features/roles/handler.go
package roles

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	rolestore "github.com/memberhub/memberhub/internal/app/store/roles"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Roles    *rolestore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(roles *rolestore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Roles: roles, AuditLog: auditLog, Log: logger}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// ServeList handles GET /executive-roles. Public.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Roles.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// HandleCreate handles POST /executive-roles. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in rolestore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, err := h.Roles.Create(ctx, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventRoleCreated, uid, map[string]string{"title": role.Title})
	}
	httpjson.Respond(w, http.StatusCreated, role)
}

// HandleUpdate handles PUT /executive-roles/{id}. Admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "role not found"})
		return
	}

	var in rolestore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, err := h.Roles.Update(ctx, id, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, role)
}

// HandleDelete handles DELETE /executive-roles/{id}. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "role not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Roles.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventRoleDeleted, uid, map[string]string{"id": id.Hex()})
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
