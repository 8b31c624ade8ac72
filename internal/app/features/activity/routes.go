// internal/app/features/activity/routes.go
package activity

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /activity.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{identityID}", h.Serve)
	return r
}
