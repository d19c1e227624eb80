package sharingapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the sharing API endpoints.
//
// When mounted at /api/sharing:
//   - POST /api/sharing/folders/{id}/share       - share a folder
//   - POST /api/sharing/folders/{id}/unshare     - stop sharing
//   - PUT  /api/sharing/folders/{id}/permissions - change permission level
//   - GET  /api/sharing/shared/{token}           - resolve a share token
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/folders/{id}", func(sr chi.Router) {
		sr.Post("/share", h.ShareHandler)
		sr.Post("/unshare", h.UnshareHandler)
		sr.Put("/permissions", h.UpdatePermissionsHandler)
	})
	r.Get("/shared/{token}", h.SharedHandler)

	return r
}

// PublicRoutes returns only the share token resolver. Mount this
// outside the authenticated API so recipients can open share links
// without an API key.
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{token}", h.SharedHandler)
	return r
}
