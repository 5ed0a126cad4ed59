// Package auth verifies admin credentials and issues and validates the signed
// session token that gates the back-office.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token.
const CookieName = "admin_token"

// DefaultSessionTTL bounds both the token expiry and the cookie lifetime.
const DefaultSessionTTL = 12 * time.Hour

// ErrInvalidToken is returned for missing, malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Session is an authenticated admin session.
type Session struct {
	UserID    string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Authority signs and verifies session tokens. It is the single source of
// truth for whether a session exists and has not expired.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthority creates an authority. A non-positive ttl uses DefaultSessionTTL.
func NewAuthority(secret string, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Authority{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Issue creates a signed token for the user.
func (a *Authority) Issue(userID, name, email string) (string, Session, error) {
	now := a.now().UTC().Truncate(time.Second)
	session := Session{
		UserID:    userID,
		Name:      name,
		Email:     email,
		LoginTime: now,
		ExpiresAt: now.Add(a.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(session.LoginTime),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Name:  name,
		Email: email,
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, session, nil
}

// Verify parses the token and returns its session.
func (a *Authority) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	session := &Session{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		session.LoginTime = claims.IssuedAt.Time.UTC()
	}
	return session, nil
}

type sessionKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
