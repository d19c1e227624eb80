// Package statsapi serves derived statistics: bookmark collection
// summaries, click analytics, and the recent request ledger. All
// numbers are recomputed from stored records on each request.
//
// Endpoints (mounted at /api/stats):
//   - GET /summary             - bookmark collection headline counts
//   - GET /usage               - click totals
//   - GET /usage/most-used     - bookmarks ranked by clicks
//   - GET /usage/trends        - clicks per day
//   - GET /usage/popular-times - clicks by hour of day
//   - GET /requests            - recent request ledger entries
//   - GET /requests/errors     - recent failed requests
package statsapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	ledgerstore "github.com/linkvault/linkvault/internal/app/store/ledger"
	"github.com/linkvault/linkvault/internal/app/store/usage"
	"github.com/linkvault/linkvault/internal/app/system/aggregate"
	"github.com/linkvault/linkvault/internal/app/system/jsonutil"
	"github.com/linkvault/linkvault/internal/app/system/ledger"
	"github.com/linkvault/linkvault/internal/domain/models"
	"go.uber.org/zap"
)

const (
	defaultMostUsedLimit = 10
	maxMostUsedLimit     = 100
	defaultTrendDays     = 30
	maxTrendDays         = 365
	bookmarkFetchLimit   = 1000
)

// Handler handles stats API requests.
type Handler struct {
	bookmarks *bookmark.Store
	usage     *usage.Store
	ledger    *ledgerstore.Store
	logger    *zap.Logger
}

// NewHandler creates a new statsapi handler.
func NewHandler(bookmarks *bookmark.Store, usage *usage.Store, ledger *ledgerstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		bookmarks: bookmarks,
		usage:     usage,
		ledger:    ledger,
		logger:    logger,
	}
}

// MostUsedEntry pairs a click count with the bookmark it belongs to.
// Bookmark is nil when the bookmark has since been deleted.
type MostUsedEntry struct {
	BookmarkID int              `json:"bookmarkId"`
	Clicks     int              `json:"clicks"`
	Bookmark   *models.Bookmark `json:"bookmark,omitempty"`
}

// SummaryHandler handles GET /stats/summary.
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.List(r.Context(), bookmarkFetchLimit)
	if err != nil {
		h.logger.Error("summary bookmark fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	jsonutil.OK(w, aggregate.Summarize(bookmarks, time.Now()))
}

// UsageHandler handles GET /stats/usage.
func (h *Handler) UsageHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.usage.List(r.Context())
	if err != nil {
		h.logger.Error("usage fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to compute usage stats")
		return
	}
	jsonutil.OK(w, aggregate.Stats(events, time.Now()))
}

// MostUsedHandler handles GET /stats/usage/most-used. The optional
// limit query parameter caps the ranking length.
func (h *Handler) MostUsedHandler(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultMostUsedLimit, maxMostUsedLimit)

	events, err := h.usage.List(r.Context())
	if err != nil {
		h.logger.Error("usage fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to compute most used")
		return
	}
	ranked := aggregate.MostUsed(events, limit)

	// One fetch for exactly the ranked ids instead of a Get per entry.
	// An id that comes back empty has genuinely lost its bookmark.
	ids := make([]int, 0, len(ranked))
	for _, rc := range ranked {
		ids = append(ids, rc.BookmarkID)
	}
	byID := make(map[int]models.Bookmark)
	if bookmarks, err := h.bookmarks.ListByIDs(r.Context(), ids); err != nil {
		h.logger.Warn("most used bookmark lookup failed, serving ids only", zap.Error(err))
	} else {
		for _, b := range bookmarks {
			byID[b.ID] = b
		}
	}

	out := make([]MostUsedEntry, 0, len(ranked))
	for _, rc := range ranked {
		entry := MostUsedEntry{BookmarkID: rc.BookmarkID, Clicks: rc.Clicks}
		if b, ok := byID[rc.BookmarkID]; ok {
			bm := b
			entry.Bookmark = &bm
		}
		out = append(out, entry)
	}
	jsonutil.OK(w, out)
}

// TrendsHandler handles GET /stats/usage/trends. The optional days
// query parameter sets the window length, ending today.
func (h *Handler) TrendsHandler(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", defaultTrendDays, maxTrendDays)

	events, err := h.usage.List(r.Context())
	if err != nil {
		h.logger.Error("usage fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to compute trends")
		return
	}
	jsonutil.OK(w, aggregate.Trends(events, days, time.Now()))
}

// PopularTimesHandler handles GET /stats/usage/popular-times.
func (h *Handler) PopularTimesHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.usage.List(r.Context())
	if err != nil {
		h.logger.Error("usage fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to compute popular times")
		return
	}
	hours := aggregate.PopularTimes(events)
	jsonutil.OK(w, hours[:])
}

// RequestsHandler handles GET /stats/requests.
func (h *Handler) RequestsHandler(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 50, 200)
	entries, err := h.ledger.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("ledger fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load request log")
		return
	}
	jsonutil.OK(w, entries)
}

// RequestErrorsHandler handles GET /stats/requests/errors.
func (h *Handler) RequestErrorsHandler(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 10, 100)
	entries, err := h.ledger.RecentErrors(r.Context(), limit)
	if err != nil {
		h.logger.Error("ledger fetch failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load request log")
		return
	}
	jsonutil.OK(w, entries)
}

// intQuery reads a positive integer query parameter, falling back to
// def when absent or malformed and clamping to max.
func intQuery(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	ledger.SetErrorMessage(r.Context(), msg)
	jsonutil.Error(w, code, msg)
}
