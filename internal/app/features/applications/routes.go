// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes wires the executive application endpoints. Submitting is public;
// reviewing and deleting applications is for admins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(h.Limiter.Middleware).Post("/", h.HandleSubmit)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Use(auth.RequireRole("admin"))

		r.Get("/", h.ServeList)
		r.Get("/{id}", h.ServeGet)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
