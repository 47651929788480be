// internal/app/features/executives/routes.go
package executives

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes mounts all executive routes under the base path (typically
// "/executives" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/order", h.HandleReorder)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
