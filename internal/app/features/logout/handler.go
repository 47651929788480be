// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{AuditLog: audit, Log: logger}
}

// HandleLogout handles POST /logout. Signing out an already-signed-out
// caller is a success, not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "signed out"})
}
