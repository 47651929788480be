// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Routes builds the liveness subrouter, mounted at /health by the
// application router. A single GET reports process and Mongo status.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
