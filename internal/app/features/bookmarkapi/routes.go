package bookmarkapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the bookmark API endpoints.
//
// When mounted at /api/bookmarks:
//   - GET    /api/bookmarks                     - list/search
//   - POST   /api/bookmarks                     - create
//   - GET    /api/bookmarks/{id}                - fetch one
//   - PUT    /api/bookmarks/{id}                - partial update
//   - DELETE /api/bookmarks/{id}                - delete
//   - POST   /api/bookmarks/{id}/toggle-pin     - flip pinned
//   - POST   /api/bookmarks/{id}/toggle-archive - flip archived
//   - POST   /api/bookmarks/{id}/click          - record usage
//
// Authentication and CORS are applied by the parent API router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)
	r.Post("/", h.CreateHandler)

	r.Route("/{id}", func(sr chi.Router) {
		sr.Get("/", h.GetHandler)
		sr.Put("/", h.UpdateHandler)
		sr.Delete("/", h.DeleteHandler)
		sr.Post("/toggle-pin", h.TogglePinHandler)
		sr.Post("/toggle-archive", h.ToggleArchiveHandler)
		sr.Post("/click", h.ClickHandler)
	})

	return r
}
