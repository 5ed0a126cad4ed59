package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidField        = "INVALID_FIELD"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeCategoryExists      = "CATEGORY_EXISTS"
	ErrCodeUsernameTaken       = "USERNAME_TAKEN"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeUploadFailed        = "UPLOAD_FAILED"
	ErrCodeUpstreamAuth        = "UPSTREAM_UNAUTHORIZED"
	ErrCodeUpstreamForbidden   = "UPSTREAM_FORBIDDEN"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeNotConfigured       = "NOT_CONFIGURED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// Common domain errors
var (
	ErrMenuItemNotFound    = NewDomainError(ErrCodeNotFound, "Menu item not found")
	ErrCategoryExists      = NewDomainError(ErrCodeCategoryExists, "A category with this key already exists")
	ErrUsernameTaken       = NewDomainError(ErrCodeUsernameTaken, "Username is already in use")
	ErrNothingToUpdate     = NewDomainError(ErrCodeMissingField, "At least one field must be provided")
	ErrPhotoSourceRequired = NewDomainError(ErrCodeMissingField, "Image URL is required; upload the image first")
	ErrEmptyImage          = NewDomainError(ErrCodeMissingField, "Image file is empty")
	ErrMissingCredentials  = NewDomainError(ErrCodeMissingField, "Username and password are required")
	ErrInvalidCredentials  = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password")
	ErrNoUsers             = NewDomainError(ErrCodeInvalidCredentials, "No admin users are registered")
)

// RequiredField returns the validation error for a missing field.
func RequiredField(field string) *DomainError {
	return NewDomainError(ErrCodeMissingField, field+" is required")
}
