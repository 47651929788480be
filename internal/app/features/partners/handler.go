// internal/app/features/partners/handler.go
package partners

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	partnerstore "github.com/memberhub/memberhub/internal/app/store/partners"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/ordering"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Partners *partnerstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(partners *partnerstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Partners: partners, AuditLog: auditLog, Log: logger}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// ServeList handles GET /partners. Public; sorted by display rank.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Partners.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// HandleCreate handles POST /partners. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in partnerstore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Partners.Create(ctx, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventPartnerCreated, uid, map[string]string{"name": p.Name})
	}
	httpjson.Respond(w, http.StatusCreated, p)
}

// HandleUpdate handles PUT /partners/{id}. Admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "partner not found"})
		return
	}

	var in partnerstore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Partners.Update(ctx, id, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /partners/{id}. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "partner not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Partners.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventPartnerDeleted, uid, map[string]string{"id": id.Hex()})
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type orderRequest struct {
	Order []string `json:"order"`
}

// HandleReorder handles PUT /partners/order. Admin only. The body is the
// full ordered list of partner ids; position i becomes rank i.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ids, err := ordering.ParseIDs(req.Order)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Partners.Reorder(ctx, ids); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventPartnersReordered, uid, nil)
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "reordered"})
}
