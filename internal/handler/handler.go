package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/imagehost"
	"resto-catalog/internal/middleware"
	"resto-catalog/internal/model"
	"resto-catalog/internal/repository"

	"github.com/rs/zerolog"
)

const (
	maxJSONBodySize = 1 << 20

	// Multipart bodies may carry an image above the soft ceiling, which is
	// only logged by the uploader.
	maxUploadBodySize = 4 * imagehost.MaxImageSize
	imageFormField    = "image"
)

// mutationResult reports the outcome of an update or delete. Found is false
// when the id did not exist, which is not an error.
type mutationResult struct {
	ID    string `json:"id"`
	Found bool   `json:"found"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful can be reported.
		return
	}
}

// writeError writes an error body carrying the request correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", message).
		Str("code", code).
		Int("status", status).
		Str("request_id", requestID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	})
}

// writeServiceError maps an error returned by a service to a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code, message := classify(err)
	writeError(w, r, status, code, message, logger)
}

func classify(err error) (int, string, string) {
	var de *model.DomainError
	if errors.As(err, &de) {
		return domainStatus(de.Code), de.Code, de.Message
	}

	var httpErr *docstore.HTTPError
	switch {
	case errors.Is(err, docstore.ErrNotConfigured):
		return http.StatusServiceUnavailable, model.ErrCodeNotConfigured, "document store is not configured"
	case errors.Is(err, docstore.ErrRevisionConflict):
		return http.StatusConflict, model.ErrCodeConflict, "document was modified concurrently, retry the request"
	case errors.Is(err, docstore.ErrUnauthorized):
		return http.StatusBadGateway, model.ErrCodeUpstreamAuth, "document store rejected the access credential"
	case errors.Is(err, docstore.ErrForbidden):
		return http.StatusBadGateway, model.ErrCodeUpstreamForbidden, "document store credential has no access to the document"
	case errors.Is(err, docstore.ErrUnavailable),
		errors.Is(err, docstore.ErrDecode),
		errors.Is(err, repository.ErrInvalidDocument),
		errors.As(err, &httpErr):
		return http.StatusBadGateway, model.ErrCodeUpstreamUnavailable, "document store request failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, model.ErrCodeUpstreamUnavailable, "document store timed out"
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error"
	}
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidField:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeCategoryExists, model.ErrCodeUsernameTaken, model.ErrCodeConflict:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUploadFailed:
		return http.StatusBadGateway
	case model.ErrCodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// readImage extracts the image part of a multipart form.
func readImage(w http.ResponseWriter, r *http.Request) (imagehost.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
		return imagehost.Image{}, model.NewDomainError(model.ErrCodeInvalidField, "expected a multipart form with an image file")
	}

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		return imagehost.Image{}, model.RequiredField(imageFormField)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return imagehost.Image{}, model.NewDomainError(model.ErrCodeInvalidField, "could not read the uploaded image")
	}
	if len(data) == 0 {
		return imagehost.Image{}, model.ErrEmptyImage
	}

	return imagehost.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
