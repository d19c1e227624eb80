// Package bookmarkapi provides the bookmark CRUD and search API.
//
// Endpoints (mounted at /api/bookmarks):
//   - GET    /                   - list/search bookmarks
//   - POST   /                   - create a bookmark
//   - GET    /{id}               - fetch one bookmark
//   - PUT    /{id}               - partial update
//   - DELETE /{id}               - delete
//   - POST   /{id}/toggle-pin     - flip the pinned flag
//   - POST   /{id}/toggle-archive - flip the archived flag
//   - POST   /{id}/click          - record a usage event
//
// Tag usage counts are kept in step with every mutation: new names
// create tags, dropped names decrement them, and a tag's last bookmark
// takes the tag with it.
package bookmarkapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/store/usage"
	"github.com/linkvault/linkvault/internal/app/system/aggregate"
	"github.com/linkvault/linkvault/internal/app/system/inputval"
	"github.com/linkvault/linkvault/internal/app/system/jsonutil"
	"github.com/linkvault/linkvault/internal/app/system/ledger"
	"github.com/linkvault/linkvault/internal/app/system/search"
	"github.com/linkvault/linkvault/internal/domain/models"
	"go.uber.org/zap"
)

// Handler handles bookmark API requests.
type Handler struct {
	bookmarks *bookmark.Store
	tags      *tag.Store
	usage     *usage.Store
	logger    *zap.Logger
}

// NewHandler creates a new bookmarkapi handler.
func NewHandler(bookmarks *bookmark.Store, tags *tag.Store, usageStore *usage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		bookmarks: bookmarks,
		tags:      tags,
		usage:     usageStore,
		logger:    logger,
	}
}

// ListHandler handles GET /bookmarks. Filters come from query
// parameters (q, folderId, tag, pinned, archived) and combine with
// AND. A failing store read degrades to an empty list so the UI keeps
// rendering.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.bookmarks.List(r.Context(), 0)
	if err != nil {
		h.logger.Error("bookmark list failed, serving empty", zap.Error(err))
		jsonutil.OK(w, []models.Bookmark{})
		return
	}

	filter := filterFromQuery(r)
	matched := search.Apply(all, filter)
	aggregate.SortByDateDesc(matched)
	jsonutil.OK(w, matched)
}

// GetHandler handles GET /bookmarks/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	b, err := h.bookmarks.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}
	if err != nil {
		h.logger.Error("bookmark get failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load bookmark")
		return
	}
	jsonutil.OK(w, b)
}

// CreateHandler handles POST /bookmarks.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in CreateBookmarkInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		ledger.SetErrorMessage(r.Context(), res.First())
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	created, err := h.bookmarks.Create(r.Context(), bookmark.CreateInput{
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Tags:        in.Tags,
		FolderID:    in.FolderID,
		IsPinned:    in.IsPinned,
		IsArchived:  in.IsArchived,
	})
	if err != nil {
		h.logger.Error("bookmark create failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to create bookmark")
		return
	}

	if err := h.tags.SyncBookmarkTags(r.Context(), nil, created.Tags); err != nil {
		// The bookmark exists; the reconcile job repairs the counts.
		h.logger.Warn("tag sync after create failed",
			zap.Int("bookmark_id", created.ID), zap.Error(err))
	}

	h.logger.Debug("bookmark created",
		zap.Int("id", created.ID), zap.String("url", created.URL))
	jsonutil.Created(w, created)
}

// UpdateHandler handles PUT /bookmarks/{id}. Only the fields present
// in the body change.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in UpdateBookmarkInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if fields := validateUpdate(in); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	existing, err := h.bookmarks.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}
	if err != nil {
		h.logger.Error("bookmark load for update failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update bookmark")
		return
	}

	updated, err := h.bookmarks.Update(r.Context(), id, bookmark.UpdateInput{
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Tags:        in.Tags,
		FolderID:    in.FolderID,
		IsPinned:    in.IsPinned,
		IsArchived:  in.IsArchived,
	})
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}
	if err != nil {
		h.logger.Error("bookmark update failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update bookmark")
		return
	}

	if in.Tags != nil {
		if err := h.tags.SyncBookmarkTags(r.Context(), existing.Tags, updated.Tags); err != nil {
			h.logger.Warn("tag sync after update failed",
				zap.Int("bookmark_id", id), zap.Error(err))
		}
	}
	jsonutil.OK(w, updated)
}

// DeleteHandler handles DELETE /bookmarks/{id}. The bookmark's tags
// are debited and its usage events removed along with it.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := h.bookmarks.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}
	if err != nil {
		h.logger.Error("bookmark load for delete failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete bookmark")
		return
	}

	if err := h.bookmarks.Delete(r.Context(), id); err != nil {
		if record.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		h.logger.Error("bookmark delete failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete bookmark")
		return
	}

	if err := h.tags.SyncBookmarkTags(r.Context(), existing.Tags, nil); err != nil {
		h.logger.Warn("tag sync after delete failed",
			zap.Int("bookmark_id", id), zap.Error(err))
	}
	if err := h.usage.DeleteForBookmark(r.Context(), id); err != nil {
		h.logger.Warn("usage cleanup after delete failed",
			zap.Int("bookmark_id", id), zap.Error(err))
	}

	jsonutil.NoContent(w)
}

// TogglePinHandler handles POST /bookmarks/{id}/toggle-pin.
func (h *Handler) TogglePinHandler(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(b *models.Bookmark) bookmark.UpdateInput {
		pinned := !b.IsPinned
		return bookmark.UpdateInput{IsPinned: &pinned}
	})
}

// ToggleArchiveHandler handles POST /bookmarks/{id}/toggle-archive.
// Archiving does not touch the pin flag.
func (h *Handler) ToggleArchiveHandler(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(b *models.Bookmark) bookmark.UpdateInput {
		archived := !b.IsArchived
		return bookmark.UpdateInput{IsArchived: &archived}
	})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, flip func(*models.Bookmark) bookmark.UpdateInput) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	existing, err := h.bookmarks.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Bookmark not found")
		return
	}
	if err != nil {
		h.logger.Error("bookmark load for toggle failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update bookmark")
		return
	}

	updated, err := h.bookmarks.Update(r.Context(), id, flip(existing))
	if err != nil {
		h.logger.Error("bookmark toggle failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update bookmark")
		return
	}
	jsonutil.OK(w, updated)
}

// ClickHandler handles POST /bookmarks/{id}/click, recording a usage
// event for the analytics endpoints.
func (h *Handler) ClickHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := h.bookmarks.Get(r.Context(), id); err != nil {
		if record.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		h.logger.Error("bookmark load for click failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to record click")
		return
	}

	event, err := h.usage.Record(r.Context(), id, models.UsageTypeClick)
	if err != nil {
		h.logger.Error("usage record failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to record click")
		return
	}
	jsonutil.Created(w, event)
}

// filterFromQuery builds the search filter from list query parameters.
func filterFromQuery(r *http.Request) search.Filter {
	q := r.URL.Query()
	f := search.Filter{
		Query: q.Get("q"),
		Tag:   q.Get("tag"),
	}
	if v := q.Get("folderId"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.FolderID = n
		}
	}
	if v := q.Get("pinned"); v != "" {
		b := v == "true" || v == "1"
		f.Pinned = &b
	}
	if v := q.Get("archived"); v != "" {
		b := v == "true" || v == "1"
		f.Archived = &b
	}
	return f
}

// validateUpdate checks the fields an update actually carries.
func validateUpdate(in UpdateBookmarkInput) map[string]string {
	fields := make(map[string]string)
	if in.Title != nil {
		if *in.Title == "" {
			fields["title"] = "Title is required."
		} else if len(*in.Title) > 200 {
			fields["title"] = "Title must be at most 200 characters."
		}
	}
	if in.URL != nil && !inputval.IsValidHTTPURL(*in.URL) {
		fields["url"] = "URL must be a valid URL starting with http:// or https://."
	}
	if in.Description != nil && len(*in.Description) > 2000 {
		fields["description"] = "Description must be at most 2000 characters."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// idParam parses the {id} route parameter; on failure it writes the
// 400 and reports false.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// writeError writes a JSON error response and notes it in the ledger.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	ledger.SetErrorMessage(r.Context(), msg)
	jsonutil.Error(w, code, msg)
}
