package handler

import (
	"net/http"

	"resto-catalog/internal/model"
	"resto-catalog/internal/service"

	"github.com/rs/zerolog"
)

// GalleryHandler handles photo gallery HTTP requests.
type GalleryHandler struct {
	service service.GalleryService
	logger  zerolog.Logger
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(service service.GalleryService, logger zerolog.Logger) *GalleryHandler {
	return &GalleryHandler{
		service: service,
		logger:  logger.With().Str("handler", "gallery").Logger(),
	}
}

// ListActive handles GET /api/gallery.
func (h *GalleryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List handles GET /api/admin/gallery.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *GalleryHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	photos, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// Create handles POST /api/admin/gallery.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.PhotoInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	photo, err := h.service.Add(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// Update handles PUT /api/admin/gallery/{id}.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.PhotoPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	found, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{ID: id, Found: found})
}

// Delete handles DELETE /api/admin/gallery/{id}.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{ID: id, Found: found})
}

// Upload handles POST /api/admin/gallery/upload. The form carries the image
// file plus optional alt text and isActive flag.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	isActive := true
	if v := r.FormValue("isActive"); v != "" {
		isActive = model.ParseBool(v)
	}

	photo, err := h.service.Upload(r.Context(), img, r.FormValue("alt"), isActive)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// Reset handles POST /api/admin/gallery/reset.
func (h *GalleryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, []model.Photo{})
}
