// internal/app/features/subscribers/routes.go
package subscribers

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes wires the subscriber list endpoints mounted at /subscribers.
// Subscribing is public; listing and removing subscribers is for admins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(h.Limiter.Middleware).Post("/", h.HandleSubscribe)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Use(auth.RequireRole("admin"))

		r.Get("/", h.ServeList)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
