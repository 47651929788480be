// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	applicationstore "github.com/memberhub/memberhub/internal/app/store/applications"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	rolestore "github.com/memberhub/memberhub/internal/app/store/roles"
	settingsstore "github.com/memberhub/memberhub/internal/app/store/settings"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Applications *applicationstore.Store
	Roles        *rolestore.Store
	Settings     *settingsstore.Store
	AuditLog     *auditlog.Logger
	// Limiter throttles public submissions by client IP. Nil disables
	// throttling.
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(
	apps *applicationstore.Store,
	roleStore *rolestore.Store,
	settings *settingsstore.Store,
	auditLog *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Applications: apps,
		Roles:        roleStore,
		Settings:     settings,
		AuditLog:     auditLog,
		Log:          logger,
	}
}

type submitRequest struct {
	Name    string                     `json:"name"`
	Email   string                     `json:"email"`
	RoleID  string                     `json:"role_id"`
	Answers []models.ApplicationAnswer `json:"answers"`
}

// HandleSubmit handles POST /executive-application. Public, but only while
// applications are open; required questions from the site settings must be
// answered.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	settings := h.Settings.Get(ctx)
	if !settings.ExecutiveApplicationsOpen {
		httpjson.Respond(w, http.StatusForbidden, map[string]string{"error": "executive applications are closed"})
		return
	}

	roleID, err := primitive.ObjectIDFromHex(req.RoleID)
	if err != nil {
		httpjson.Respond(w, http.StatusBadRequest, map[string]string{"error": "role is required"})
		return
	}
	if _, err := h.Roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "role not found"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if msg, ok := missingRequiredAnswer(settings.ExecutiveApplicationQuestions, req.Answers); !ok {
		httpjson.Respond(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	app, err := h.Applications.Create(ctx, models.ExecutiveApplication{
		Name:    req.Name,
		Email:   req.Email,
		RoleID:  roleID,
		Answers: req.Answers,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.ApplicationSubmitted(ctx, r, app.ID, app.Email)
	httpjson.Respond(w, http.StatusCreated, app)
}

// missingRequiredAnswer checks every required question has a non-empty
// answer.
func missingRequiredAnswer(questions []models.ApplicationQuestion, answers []models.ApplicationAnswer) (string, bool) {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if a.Answer != "" {
			answered[a.Question] = true
		}
	}
	for _, q := range questions {
		if q.Required && !answered[q.Prompt] {
			return "missing answer for required question: " + q.Prompt, false
		}
	}
	return "", true
}

// ServeList handles GET /executive-application. Admin only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Applications.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// ServeGet handles GET /executive-application/{id}. Admin only.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	app, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "application not found"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, app)
}

// HandleDelete handles DELETE /executive-application/{id}. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Applications.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, _, uid, ok := authz.UserCtx(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventApplicationDeleted, uid, map[string]string{"id": id.Hex()})
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
