package handler

import (
	"net/http"
	"time"

	"resto-catalog/internal/auth"
	"resto-catalog/internal/middleware"
	"resto-catalog/internal/model"
	"resto-catalog/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles admin login and session requests.
type AuthHandler struct {
	service      service.AuthService
	authority    *auth.Authority
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, authority *auth.Authority, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		authority:    authority,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("handler", "auth").Logger(),
	}
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Login handles POST /api/admin/login. The token is returned in the body
// and set as an HTTP-only cookie living exactly as long as the token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, int(h.authority.TTL()/time.Second)))
	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session handles GET /api/admin/session. The admin gate has already
// verified the token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// LoginPage handles GET /admin/login. Signed-in admins are sent on to the
// dashboard; everyone else is told where to post credentials.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.VerifySession(h.authority, r); err == nil {
		http.Redirect(w, r, "/admin/", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":       "authentication required",
		"loginEndpoint": "/api/admin/login",
	})
}
