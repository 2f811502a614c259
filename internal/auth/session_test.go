// ABOUTME: Tests for session cookie issuing and verification
// ABOUTME: Claims shape, tampering, lifetime limits and the renewal window

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(tokens *SessionTokens, at time.Time) {
	tokens.now = func() time.Time { return at }
}

func TestSessionTokens_IssueAndVerify(t *testing.T) {
	tokens := NewSessionTokens(sessionSecret, time.Hour)

	token, issued, err := tokens.Issue("  User@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", issued.Email)
	assert.Equal(t, issued.Email, issued.Subject)
	assert.Equal(t, SessionIssuer, issued.Issuer)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, time.Hour, issued.ExpiresAt.Sub(issued.IssuedAt.Time))

	claims, err := tokens.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestSessionTokens_DistinctIDs(t *testing.T) {
	tokens := NewSessionTokens(sessionSecret, time.Hour)
	_, a, err := tokens.Issue("user@example.com")
	require.NoError(t, err)
	_, b, err := tokens.Issue("user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionTokens_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewSessionTokens(sessionSecret, 0).TTL())
}

func TestSessionTokens_IssueRejectsEmptyEmail(t *testing.T) {
	tokens := NewSessionTokens(sessionSecret, time.Hour)
	_, _, err := tokens.Issue("   ")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokens_Rejects(t *testing.T) {
	tokens := NewSessionTokens(sessionSecret, time.Hour)
	now := time.Now().Truncate(time.Second)

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	base := func(email, subject string) *SessionClaims {
		return &SessionClaims{
			Email: email,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    SessionIssuer,
				Subject:   subject,
				ID:        "id-1",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	otherSigner := NewSessionTokens([]byte("another-secret-another-secret-xx"), time.Hour)
	foreign, _, err := otherSigner.Issue("user@example.com")
	require.NoError(t, err)

	wrongIssuer := base("user@example.com", "user@example.com")
	wrongIssuer.Issuer = "someone-else"

	noExpiry := base("user@example.com", "user@example.com")
	noExpiry.ExpiresAt = nil

	noID := base("user@example.com", "user@example.com")
	noID.ID = ""

	noIssuedAt := base("user@example.com", "user@example.com")
	noIssuedAt.IssuedAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-session"},
		{"other secret", foreign},
		{"unsigned", sign(base("user@example.com", "user@example.com"), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)},
		{"wrong issuer", sign(wrongIssuer, jwt.SigningMethodHS256, sessionSecret)},
		{"no expiry", sign(noExpiry, jwt.SigningMethodHS256, sessionSecret)},
		{"email differs from subject", sign(base("admin@example.com", "user@example.com"), jwt.SigningMethodHS256, sessionSecret)},
		{"no email", sign(base("", "user@example.com"), jwt.SigningMethodHS256, sessionSecret)},
		{"no session id", sign(noID, jwt.SigningMethodHS256, sessionSecret)},
		{"no iat", sign(noIssuedAt, jwt.SigningMethodHS256, sessionSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.VerifySession(tt.token)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionTokens_Expiry(t *testing.T) {
	t.Run("past exp", func(t *testing.T) {
		tokens := NewSessionTokens(sessionSecret, time.Hour)
		token, _, err := tokens.Issue("user@example.com")
		require.NoError(t, err)

		fixedClock(tokens, time.Now().Add(2*time.Hour))
		_, err = tokens.VerifySession(token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("older than a shortened ttl", func(t *testing.T) {
		long := NewSessionTokens(sessionSecret, 24*time.Hour)
		token, _, err := long.Issue("user@example.com")
		require.NoError(t, err)

		short := NewSessionTokens(sessionSecret, time.Hour)
		fixedClock(short, time.Now().Add(2*time.Hour))
		_, err = short.VerifySession(token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("issued in the future", func(t *testing.T) {
		tokens := NewSessionTokens(sessionSecret, time.Hour)
		fixedClock(tokens, time.Now().Add(time.Hour))
		token, _, err := tokens.Issue("user@example.com")
		require.NoError(t, err)

		fixedClock(tokens, time.Now())
		_, err = tokens.VerifySession(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestSessionTokens_ShouldRenew(t *testing.T) {
	tokens := NewSessionTokens(sessionSecret, 10*time.Hour)
	now := time.Now()
	fixedClock(tokens, now)

	assert.False(t, tokens.ShouldRenew(time.Time{}))
	assert.False(t, tokens.ShouldRenew(now.Add(9*time.Hour)))
	assert.True(t, tokens.ShouldRenew(now.Add(4*time.Hour)))
}
