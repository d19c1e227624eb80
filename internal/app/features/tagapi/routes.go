package tagapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the tag API endpoints.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)
	r.Put("/{name}/color", h.UpdateColorHandler)

	return r
}
