// Package sharingapi provides folder sharing: marking folders shared
// with a recipient list and permission level, minting opaque share
// tokens, and resolving tokens back to a folder and its bookmarks.
//
// Endpoints (mounted at /api/sharing):
//   - POST /folders/{id}/share       - share a folder
//   - POST /folders/{id}/unshare     - stop sharing
//   - PUT  /folders/{id}/permissions - change the permission level
//   - GET  /shared/{token}           - resolve a share token
package sharingapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/folder"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/aggregate"
	"github.com/linkvault/linkvault/internal/app/system/inputval"
	"github.com/linkvault/linkvault/internal/app/system/jsonutil"
	"github.com/linkvault/linkvault/internal/app/system/ledger"
	"github.com/linkvault/linkvault/internal/app/system/sharelink"
	"go.uber.org/zap"
)

// Handler handles sharing API requests.
type Handler struct {
	folders   *folder.Store
	bookmarks *bookmark.Store
	baseURL   string
	logger    *zap.Logger
}

// NewHandler creates a new sharingapi handler. baseURL is the public
// origin share links are built on.
func NewHandler(folders *folder.Store, bookmarks *bookmark.Store, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		folders:   folders,
		bookmarks: bookmarks,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// ShareHandler handles POST /sharing/folders/{id}/share. Sharing an
// already-shared folder replaces its recipient list and permissions.
func (h *Handler) ShareHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in ShareFolderInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		ledger.SetErrorMessage(r.Context(), res.First())
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	for _, email := range in.SharedWith {
		if !inputval.IsValidEmail(email) {
			jsonutil.ValidationError(w, map[string]string{
				"sharedWith": "A valid email address is required.",
			})
			return
		}
	}

	shared, err := h.folders.Share(r.Context(), id, in.SharedWith, in.Permissions)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("folder share failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to share folder")
		return
	}

	h.logger.Debug("folder shared",
		zap.Int("id", id),
		zap.Int("recipients", len(in.SharedWith)),
		zap.String("permissions", in.Permissions))
	jsonutil.OK(w, ShareResponse{
		Folder:   *shared,
		ShareURL: sharelink.URL(h.baseURL, id),
	})
}

// UnshareHandler handles POST /sharing/folders/{id}/unshare. Always
// leaves the folder with no recipients and view permissions,
// regardless of its previous state.
func (h *Handler) UnshareHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	unshared, err := h.folders.Unshare(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("folder unshare failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to unshare folder")
		return
	}
	jsonutil.OK(w, unshared)
}

// UpdatePermissionsHandler handles PUT /sharing/folders/{id}/permissions.
// Changing permissions on a folder that is not shared is rejected;
// share it first.
func (h *Handler) UpdatePermissionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in UpdatePermissionsInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		ledger.SetErrorMessage(r.Context(), res.First())
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	existing, err := h.folders.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("folder load for permissions failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update permissions")
		return
	}
	if !existing.IsShared {
		writeError(w, r, http.StatusConflict, "Folder is not shared")
		return
	}

	updated, err := h.folders.UpdateSharePermissions(r.Context(), id, in.Permissions)
	if err != nil {
		h.logger.Error("permission update failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update permissions")
		return
	}
	jsonutil.OK(w, updated)
}

// SharedHandler handles GET /sharing/shared/{token}. The token only
// resolves while the folder is shared; unsharing invalidates existing
// links immediately.
func (h *Handler) SharedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sharelink.FolderID(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Invalid share link")
		return
	}

	f, err := h.folders.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Invalid share link")
		return
	}
	if err != nil {
		h.logger.Error("shared folder load failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load shared folder")
		return
	}
	if !f.IsShared {
		writeError(w, r, http.StatusNotFound, "Invalid share link")
		return
	}

	bookmarks, err := h.bookmarks.ListByFolder(r.Context(), id)
	if err != nil {
		h.logger.Error("shared folder bookmarks failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load shared folder")
		return
	}
	aggregate.SortByDateDesc(bookmarks)

	jsonutil.OK(w, SharedFolderResponse{
		Folder:      *f,
		Bookmarks:   bookmarks,
		Permissions: f.SharePermissions,
	})
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	ledger.SetErrorMessage(r.Context(), msg)
	jsonutil.Error(w, code, msg)
}
