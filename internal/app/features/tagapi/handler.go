// Package tagapi provides the tag API. Tags are created and destroyed
// implicitly by bookmark edits; this API only lists them and changes
// their display color.
//
// Endpoints (mounted at /api/tags):
//   - GET /             - list tags with usage counts
//   - PUT /{name}/color - change a tag's color
package tagapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/system/inputval"
	"github.com/linkvault/linkvault/internal/app/system/jsonutil"
	"github.com/linkvault/linkvault/internal/app/system/ledger"
	"github.com/linkvault/linkvault/internal/domain/models"
	"go.uber.org/zap"
)

// Handler handles tag API requests.
type Handler struct {
	tags   *tag.Store
	logger *zap.Logger
}

// NewHandler creates a new tagapi handler.
func NewHandler(tags *tag.Store, logger *zap.Logger) *Handler {
	return &Handler{tags: tags, logger: logger}
}

// UpdateColorInput is the request body for PUT /tags/{name}/color.
type UpdateColorInput struct {
	Color string `json:"color" validate:"required,hexcolor" label:"Color"`
}

// ListHandler handles GET /tags. A failing store read degrades to an
// empty list.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		h.logger.Error("tag list failed, serving empty", zap.Error(err))
		jsonutil.OK(w, []models.Tag{})
		return
	}
	jsonutil.OK(w, tags)
}

// UpdateColorHandler handles PUT /tags/{name}/color.
func (h *Handler) UpdateColorHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid tag name")
		return
	}

	var in UpdateColorInput
	if err := jsonutil.Decode(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		ledger.SetErrorMessage(r.Context(), res.First())
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	updated, err := h.tags.UpdateColor(r.Context(), name, in.Color)
	if record.IsNotFound(err) {
		writeError(w, r, http.StatusNotFound, "Tag not found")
		return
	}
	if err != nil {
		h.logger.Error("tag color update failed", zap.String("tag", name), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Failed to update tag")
		return
	}
	jsonutil.OK(w, updated)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	ledger.SetErrorMessage(r.Context(), msg)
	jsonutil.Error(w, code, msg)
}
