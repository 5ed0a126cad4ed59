package handler

import (
	"net/http"

	"resto-catalog/internal/imagehost"

	"github.com/rs/zerolog"
)

// ImageHandler exposes the image host directly.
type ImageHandler struct {
	uploader imagehost.Uploader
	logger   zerolog.Logger
}

// NewImageHandler creates a new image upload handler.
func NewImageHandler(uploader imagehost.Uploader, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		uploader: uploader,
		logger:   logger.With().Str("handler", "image").Logger(),
	}
}

// Upload handles POST /api/admin/images. The uploader never returns an
// error; a failed result is passed through with a 502 status.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(w, r)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result := h.uploader.Upload(r.Context(), img)
	if !result.Success {
		h.logger.Warn().Str("filename", img.Filename).Str("error", result.Error).Msg("image upload failed")
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
