package middleware

import (
	"net/http"
	"strings"

	"resto-catalog/internal/auth"

	"github.com/rs/zerolog"
)

const (
	adminAPIPrefix  = "/api/admin"
	adminAPILogin   = "/api/admin/login"
	adminPagePrefix = "/admin"

	// AdminLoginPath is where unauthenticated page requests are sent.
	AdminLoginPath = "/admin/login"
)

// sessionTokens returns the candidate tokens in the order they are tried:
// the admin cookie, then an Authorization bearer header.
func sessionTokens(r *http.Request) []string {
	var tokens []string
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		if token := strings.TrimSpace(h[7:]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// VerifySession returns the session of the first candidate token that
// verifies. A stale cookie does not hide a valid bearer token.
func VerifySession(authority *auth.Authority, r *http.Request) (*auth.Session, error) {
	err := auth.ErrInvalidToken
	for _, token := range sessionTokens(r) {
		var session *auth.Session
		if session, err = authority.Verify(token); err == nil {
			return session, nil
		}
	}
	return nil, err
}

// AdminGate guards the admin area. API paths answer 401 without a valid
// session, page paths redirect to the login page. A verified session is put
// into the request context.
func AdminGate(authority *auth.Authority, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "admin_gate").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			api := underPrefix(path, adminAPIPrefix) && path != adminAPILogin
			page := underPrefix(path, adminPagePrefix) && path != AdminLoginPath
			if !api && !page {
				next.ServeHTTP(w, r)
				return
			}

			session, err := VerifySession(authority, r)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
				return
			}

			logger.Warn().
				Str("path", path).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("admin access without a valid session")

			if page {
				http.Redirect(w, r, AdminLoginPath, http.StatusFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"UNAUTHORIZED","message":"authentication required"}`))
		})
	}
}

// underPrefix matches prefix itself and anything below it, but not
// siblings such as "/administrator".
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
