// internal/app/features/partnerapps/routes.go
package partnerapps

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes mounts the partner-application routes under the base path
// (typically "/partner-applications" from bootstrap). Per-record
// authorization is decided in the handlers, where the record's owner is
// known.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("associate"))
		pr.Get("/me", h.ServeMe)
	})

	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
