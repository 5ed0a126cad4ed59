package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthority_IssueAndVerify(t *testing.T) {
	authority := NewAuthority("test-secret", time.Hour)
	issuedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	authority.now = func() time.Time { return issuedAt }

	token, session, err := authority.Issue("user_1", "Admin", "admin@resto.test")
	require.NoError(t, err)
	assert.Equal(t, issuedAt, session.LoginTime)
	assert.Equal(t, issuedAt.Add(time.Hour), session.ExpiresAt)

	authority.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	got, err := authority.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "user_1", got.UserID)
	assert.Equal(t, "Admin", got.Name)
	assert.Equal(t, "admin@resto.test", got.Email)
	assert.True(t, got.LoginTime.Equal(session.LoginTime))
	assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))
}

func TestAuthority_Verify_Rejects(t *testing.T) {
	authority := NewAuthority("test-secret", time.Hour)
	issuedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	authority.now = func() time.Time { return issuedAt }
	token, _, err := authority.Issue("user_1", "Admin", "admin@resto.test")
	require.NoError(t, err)

	other := NewAuthority("other-secret", time.Hour)
	other.now = authority.now

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name      string
		authority *Authority
		token     string
		at        time.Time
	}{
		{name: "empty", authority: authority, token: "", at: issuedAt},
		{name: "garbage", authority: authority, token: "not-a-token", at: issuedAt},
		{name: "expired", authority: authority, token: token, at: issuedAt.Add(time.Hour + time.Minute)},
		{name: "wrong secret", authority: other, token: token, at: issuedAt},
		{name: "tampered", authority: authority, token: token[:len(token)-2] + "xx", at: issuedAt},
		{name: "alg none", authority: authority, token: unsigned, at: issuedAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.authority.now = func() time.Time { return tt.at }

			_, err := tt.authority.Verify(tt.token)

			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewAuthority_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewAuthority("s", 0).TTL())
	assert.Equal(t, 12*time.Hour, DefaultSessionTTL)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	session := &Session{UserID: "user_1"}
	got, ok := SessionFromContext(WithSession(context.Background(), session))
	require.True(t, ok)
	assert.Same(t, session, got)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("rahasia")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, IsHashed(hash))

	tests := []struct {
		name      string
		stored    string
		candidate string
		want      bool
	}{
		{name: "plaintext match", stored: "rahasia", candidate: "rahasia", want: true},
		{name: "plaintext mismatch", stored: "rahasia", candidate: "Rahasia", want: false},
		{name: "plaintext empty", stored: "rahasia", candidate: "", want: false},
		{name: "hash match", stored: hash, candidate: "rahasia", want: true},
		{name: "hash mismatch", stored: hash, candidate: "salah", want: false},
		{name: "hash compared as text", stored: hash, candidate: hash, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.stored, tt.candidate))
		})
	}
}
