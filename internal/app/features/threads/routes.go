// internal/app/features/threads/routes.go
package threads

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /threads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{threadID}", h.Show)
	r.Post("/{threadID}/comments", h.Comment)
	return r
}
