package validations

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the validation request
// endpoints. It is mounted under /validations.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/pending", h.ListPending)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/validators/{validatorID}/decision", h.Decide)
	return r
}

// BookRoutes returns a subrouter that serves the per-book views.
// It is mounted under /books.
func BookRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{bookID}/validations", h.ListForBook)
	return r
}
