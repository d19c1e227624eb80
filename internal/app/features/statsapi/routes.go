package statsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the stats API endpoints.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/summary", h.SummaryHandler)

	r.Route("/usage", func(ur chi.Router) {
		ur.Get("/", h.UsageHandler)
		ur.Get("/most-used", h.MostUsedHandler)
		ur.Get("/trends", h.TrendsHandler)
		ur.Get("/popular-times", h.PopularTimesHandler)
	})

	r.Route("/requests", func(rr chi.Router) {
		rr.Get("/", h.RequestsHandler)
		rr.Get("/errors", h.RequestErrorsHandler)
	})

	return r
}
