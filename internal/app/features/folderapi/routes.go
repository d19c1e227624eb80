package folderapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the folder API endpoints.
//
// When mounted at /api/folders:
//   - GET    /api/folders      - list with live bookmark counts
//   - POST   /api/folders      - create
//   - GET    /api/folders/{id} - fetch one
//   - PUT    /api/folders/{id} - partial update
//   - DELETE /api/folders/{id} - delete (empty folders only)
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)
	r.Post("/", h.CreateHandler)

	r.Route("/{id}", func(sr chi.Router) {
		sr.Get("/", h.GetHandler)
		sr.Put("/", h.UpdateHandler)
		sr.Delete("/", h.DeleteHandler)
	})

	return r
}
