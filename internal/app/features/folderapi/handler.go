// Package folderapi provides the folder CRUD API.
//
// Endpoints (mounted at /api/folders):
//   - GET    /      - list folders with live bookmark counts
//   - POST   /      - create a folder
//   - GET    /{id}  - fetch one folder
//   - PUT    /{id}  - partial update (move, rename, recolor)
//   - DELETE /{id}  - delete an empty folder
//
// Bookmark counts in responses are recomputed from the bookmark list
// on every read; the stored count is only a cache.
package folderapi

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
	"github.com/linkvault/linkvault/internal/domain/models"
	"go.uber.org/zap"
)

// Handler handles folder API requests.
type Handler struct {
	folders   *folder.Store
	bookmarks *bookmark.Store
	logger    *zap.Logger
}

// NewHandler creates a new folderapi handler.
func NewHandler(folders *folder.Store, bookmarks *bookmark.Store, logger *zap.Logger) *Handler {
	return &Handler{
		folders:   folders,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// ListHandler handles GET /folders. A failing store read degrades to
// an empty list.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.List(r.Context())
	if err != nil {
		h.logger.Error("folder list failed, serving empty", zap.Error(err))
		jsonutil.OK(w, []models.Folder{})
		return
	}

	h.overlayCounts(r, folders)
	jsonutil.OK(w, folders)
}

// GetHandler handles GET /folders/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	f, err := h.folders.Get(r.Context(), id)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("folder get failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to load folder")
		return
	}

	list := []models.Folder{*f}
	h.overlayCounts(r, list)
	jsonutil.OK(w, list[0])
}

// CreateHandler handles POST /folders.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in CreateFolderInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		ledger.SetErrorMessage(r.Context(), res.First())
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	if in.Color != "" && !inputval.IsValidHexColor(in.Color) {
		jsonutil.ValidationError(w, map[string]string{"color": "Color must be a hex color like #2563eb."})
		return
	}

	if in.ParentID != 0 {
		if _, err := h.folders.Get(r.Context(), in.ParentID); err != nil {
			if record.IsNotFound(err) {
				writeError(w, r, http.StatusBadRequest, "Parent folder does not exist")
				return
			}
			h.logger.Error("parent folder check failed", zap.Int("parent_id", in.ParentID), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "Failed to create folder")
			return
		}
	}

	created, err := h.folders.Create(r.Context(), folder.CreateInput{
		Name:     in.Name,
		Color:    in.Color,
		ParentID: in.ParentID,
	})
	if err != nil {
		h.logger.Error("folder create failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	h.logger.Debug("folder created", zap.Int("id", created.ID), zap.String("name", created.Name))
	jsonutil.Created(w, created)
}

// UpdateHandler handles PUT /folders/{id}. Moving a folder under one
// of its own descendants is rejected.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in UpdateFolderInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if fields := validateUpdate(in); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	if in.ParentID != nil && *in.ParentID != 0 {
		cycle, err := h.folders.WouldCreateCycle(r.Context(), id, *in.ParentID)
		if err != nil {
			h.logger.Error("cycle check failed", zap.Int("id", id), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "Failed to update folder")
			return
		}
		if cycle {
			writeError(w, r, http.StatusBadRequest, "Cannot move a folder into its own subtree")
			return
		}
	}

	updated, err := h.folders.Update(r.Context(), id, folder.UpdateInput{
		Name:     in.Name,
		Color:    in.Color,
		ParentID: in.ParentID,
	})
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Folder not found")
		return
	}
	if err != nil {
		h.logger.Error("folder update failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update folder")
		return
	}
	jsonutil.OK(w, updated)
}

// DeleteHandler handles DELETE /folders/{id}. Folders still holding
// bookmarks or subfolders are rejected with 409; callers must empty
// them first.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := h.folders.Get(r.Context(), id); err != nil {
		if record.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "Folder not found")
			return
		}
		h.logger.Error("folder load for delete failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete folder")
		return
	}

	inFolder, err := h.bookmarks.ListByFolder(r.Context(), id)
	if err != nil {
		h.logger.Error("folder emptiness check failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete folder")
		return
	}
	if len(inFolder) > 0 {
		writeError(w, r, http.StatusConflict, "Folder still contains bookmarks")
		return
	}

	hasChildren, err := h.folders.HasSubfolders(r.Context(), id)
	if err != nil {
		h.logger.Error("subfolder check failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete folder")
		return
	}
	if hasChildren {
		writeError(w, r, http.StatusConflict, "Folder still contains subfolders")
		return
	}

	if err := h.folders.Delete(r.Context(), id); err != nil {
		if record.IsNotFound(err) {
			writeError(w, r, http.StatusNotFound, "Folder not found")
			return
		}
		h.logger.Error("folder delete failed", zap.Int("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to delete folder")
		return
	}
	jsonutil.NoContent(w)
}

// overlayCounts replaces cached bookmark counts with counts computed
// from the bookmark list. A failing bookmark read leaves the cached
// values in place.
func (h *Handler) overlayCounts(r *http.Request, folders []models.Folder) {
	all, err := h.bookmarks.List(r.Context(), 0)
	if err != nil {
		h.logger.Warn("bookmark list for folder counts failed, using cached counts", zap.Error(err))
		return
	}
	counts := aggregate.FolderCounts(all)
	for i := range folders {
		folders[i].BookmarkCount = counts[folders[i].ID]
	}
}

func validateUpdate(in UpdateFolderInput) map[string]string {
	fields := make(map[string]string)
	if in.Name != nil {
		if *in.Name == "" {
			fields["name"] = "Name is required."
		} else if len(*in.Name) > 50 {
			fields["name"] = "Name must be at most 50 characters."
		}
	}
	if in.Color != nil && !inputval.IsValidHexColor(*in.Color) {
		fields["color"] = "Color must be a hex color like #2563eb."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
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
