// internal/app/features/associates/routes.go
package associates

import (
	"github.com/go-chi/chi/v5"
	"github.com/memberhub/memberhub/internal/app/system/auth"
)

// Routes mounts all associate-member routes under the base path
// (typically "/associate-members" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public signup, throttled by client IP.
	r.With(h.Limiter.Middleware).Post("/", h.HandleCreate)

	// Signed-in associate's own profile.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("associate"))
		pr.Get("/me", h.ServeMe)
	})

	// Admin management.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
