// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted under /users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Search)
	r.Route("/{identityID}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Upsert)
		r.Get("/threads", h.Posts)
	})
	return r
}
