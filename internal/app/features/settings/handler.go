// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/memberhub/memberhub/internal/app/store/audit"
	settingsstore "github.com/memberhub/memberhub/internal/app/store/settings"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/authz"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"github.com/memberhub/memberhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Settings *settingsstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(store *settingsstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Settings: store, AuditLog: auditLog, Log: logger}
}

// ServeGet handles GET /settings. Public, so the application form can tell
// whether submissions are open and which questions to render.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	httpjson.Respond(w, http.StatusOK, h.Settings.Get(r.Context()))
}

type updateRequest struct {
	ExecutiveApplicationsOpen     bool                         `json:"executive_applications_open"`
	ExecutiveApplicationQuestions []models.ApplicationQuestion `json:"executive_application_questions"`
}

// HandleUpdate handles PUT /settings. Admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Settings.Save(ctx, models.SiteSettings{
		ExecutiveApplicationsOpen:     req.ExecutiveApplicationsOpen,
		ExecutiveApplicationQuestions: req.ExecutiveApplicationQuestions,
	}, actorID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventSettingsUpdated, actorID, map[string]string{
		"applications_open": strconv.FormatBool(saved.ExecutiveApplicationsOpen),
		"question_count":    strconv.Itoa(len(saved.ExecutiveApplicationQuestions)),
	})
	httpjson.Respond(w, http.StatusOK, saved)
}
