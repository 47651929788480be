// internal/app/features/events/handler.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/store/audit"
	eventstore "github.com/memberhub/memberhub/internal/app/store/events"
	"github.com/memberhub/memberhub/internal/app/system/auditlog"
	"github.com/memberhub/memberhub/internal/app/system/auth"
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
	Events   *eventstore.Store
	AuditLog *auditlog.Logger
	Mailer   *mailer.Mailer
	SiteName string
	// Limiter throttles public registration by client IP. Nil disables
	// throttling.
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(events *eventstore.Store, auditLog *auditlog.Logger, mail *mailer.Mailer, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		AuditLog: auditLog,
		Mailer:   mail,
		SiteName: siteName,
		Log:      logger,
	}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// HandleCreate handles POST /events. Authenticated.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	var in eventstore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.Create(ctx, userID, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventEventCreated, userID, map[string]string{"title": event.Title})
	httpjson.Respond(w, http.StatusCreated, event)
}

// ServeList handles GET /events. Public.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Events.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// ServeGet handles GET /events/{id}. Public.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, event)
}

// HandleUpdate handles PUT /events/{id}. Authenticated.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	var in eventstore.Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.Update(ctx, id, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, event)
}

// HandleDelete handles DELETE /events/{id}. Authenticated.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Comments string `json:"comments,omitempty"`
}

// HandleRegister handles POST /events/{id}/register. Public; a session is
// optional. A signed-in caller registers with their session identity, an
// anonymous caller must supply email and name.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	// An empty body is fine for signed-in callers; the session supplies
	// their identity. Anonymous callers must post email and name.
	_, signedIn := auth.CurrentUser(r)
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil && !signedIn {
		httpjson.Error(w, h.Log, err)
		return
	}

	reg := models.Registration{
		UserEmail:     req.Email,
		Name:          req.Name,
		Comments:      req.Comments,
		Authenticated: false,
	}
	if u, ok := auth.CurrentUser(r); ok {
		reg.UserEmail = u.Email
		reg.Name = u.Name
		if reg.Name == "" {
			reg.Name = u.LoginID
		}
		reg.Authenticated = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.Register(ctx, id, reg)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// Best-effort confirmation; registration stands even if the send fails.
	h.sendConfirmation(event, reg)

	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "registered"})
}

// ServeRegistrations handles GET /events/{id}/registrations. Admin only.
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	regs, err := h.Events.Registrations(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	httpjson.Respond(w, http.StatusOK, regs)
}

func (h *Handler) sendConfirmation(event models.Event, reg models.Registration) {
	if err := h.Mailer.Send(confirmationEmail(h.SiteName, event, reg)); err != nil {
		h.Log.Warn("confirmation email send failed",
			zap.String("event", event.Title), zap.Error(err))
	}
}

// confirmationEmail builds the registration confirmation addressed to the
// registrant.
func confirmationEmail(siteName string, event models.Event, reg models.Registration) mailer.Email {
	email := mailer.BuildRegistrationEmail(mailer.RegistrationEmailData{
		SiteName:   siteName,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("January 2, 2006") + " " + event.Time,
		Name:       reg.Name,
	})
	email.To = reg.UserEmail
	return email
}
