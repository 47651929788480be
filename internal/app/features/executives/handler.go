// internal/app/features/executives/handler.go
package executives

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	executivestore "github.com/memberhub/memberhub/internal/app/store/executives"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/ordering"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Executives *executivestore.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(executives *executivestore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Executives: executives, AuditLog: auditLog, Log: logger}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// executiveView omits the secret hash and credential linkage.
type executiveView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func view(e models.Executive) executiveView {
	return executiveView{
		ID:        e.ID.Hex(),
		Name:      e.Name,
		Role:      e.Role,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ServeList handles GET /executives. Public; sorted by display rank.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Executives.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]executiveView, 0, len(list))
	for _, e := range list {
		out = append(out, view(e))
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleCreate handles POST /executives. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in executivestore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e, err := h.Executives.Create(ctx, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventExecutiveCreated, uid, map[string]string{"name": e.Name})
	}
	httpjson.Respond(w, http.StatusCreated, view(e))
}

// HandleUpdate handles PUT /executives/{id}. Admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "executive not found"})
		return
	}

	var in executivestore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	e, err := h.Executives.Update(ctx, id, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, view(e))
}

// HandleDelete handles DELETE /executives/{id}. Admin only. Deletes the
// paired credential when one exists.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "executive not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Executives.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventExecutiveDeleted, uid, map[string]string{"id": id.Hex()})
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type orderRequest struct {
	Order []string `json:"order"`
}

// HandleReorder handles PUT /executives/order. Admin only.
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

	if err := h.Executives.Reorder(ctx, ids); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventExecutivesReordered, uid, nil)
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "reordered"})
}
