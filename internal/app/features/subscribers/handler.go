// internal/app/features/subscribers/handler.go
package subscribers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	subscriberstore "github.com/memberhub/memberhub/internal/app/store/subscribers"
	"github.com/memberhub/memberhub/internal/app/system/httpjson"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Subscribers *subscriberstore.Store
	// Limiter throttles public signups by client IP. Nil disables
	// throttling.
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(store *subscriberstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Subscribers: store, Log: logger}
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleSubscribe handles POST /subscribe and POST /subscribers. Public.
// Subscribing an address twice reports a conflict rather than silently
// refreshing the record.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Subscribers.Create(ctx, req.Email, req.Name)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, sub)
}

// ServeList handles GET /subscribers. Admin only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Subscribers.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /subscribers/{id}. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Respond(w, http.StatusNotFound, map[string]string{"error": "subscriber not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Subscribers.Delete(ctx, id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
