// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes mounts all event routes under the base path (typically "/events"
// from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads and registration (session optional).
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.With(h.Limiter.Middleware).Post("/{id}/register", h.HandleRegister)

	// Any signed-in user may manage events.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	// Registration lists carry attendee emails; admin only.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/{id}/registrations", h.ServeRegistrations)
	})

	return r
}
