package handler

import (
	"net/http"

	"resto-catalog/internal/model"
	"resto-catalog/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu-related HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// menuFilter reads ?category=, ?q= and ?bestSeller= from the query string.
func menuFilter(r *http.Request) model.MenuFilter {
	q := r.URL.Query()
	return model.MenuFilter{
		Category:       q.Get("category"),
		Query:          q.Get("q"),
		BestSellerOnly: model.ParseBool(q.Get("bestSeller")),
	}
}

// List handles GET /api/menu and GET /api/admin/menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), menuFilter(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/admin/menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.MenuItemInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	item, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/admin/menu/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.MenuItemPatch
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

// Delete handles DELETE /api/admin/menu/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{ID: id, Found: found})
}
