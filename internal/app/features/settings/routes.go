// internal/app/features/settings/routes.go
package settings

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes wires the site settings endpoints mounted at /settings.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Use(auth.RequireRole("admin"))

		r.Put("/", h.HandleUpdate)
	})

	return r
}
