// ABOUTME: Signed session cookies for the development backend
// ABOUTME: Claims carry the normalized email and a per-login id; age is bounded by the configured TTL

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionIssuer is the iss claim of every session the dev backend signs.
const SessionIssuer = "molindex-devserver"

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// SessionClaims is the payload of a session cookie. Email repeats the
// subject; a cookie where the two disagree is rejected. Admin rights are not
// stored here, they are decided per request from the configured list.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionVerifier resolves a cookie value into its claims.
type SessionVerifier interface {
	VerifySession(token string) (*SessionClaims, error)
}

// SessionTokens issues and verifies HS256 session cookies.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokens returns a signer for secret. A non-positive ttl means
// DefaultSessionTTL.
func NewSessionTokens(secret []byte, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionTokens{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to new sessions.
func (t *SessionTokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a fresh session for email.
func (t *SessionTokens) Issue(email string) (string, *SessionClaims, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil, fmt.Errorf("%w: empty email", ErrInvalidSession)
	}

	now := t.now().Truncate(time.Second)
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return signed, claims, nil
}

// VerifySession checks the signature, issuer and lifetime of token.
// Sessions issued longer ago than the current TTL are expired even when
// their exp claim says otherwise, so shortening the TTL takes effect at once.
func (t *SessionTokens) VerifySession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if claims.Email == "" || claims.Email != claims.Subject {
		return nil, fmt.Errorf("%w: email claim does not match subject", ErrInvalidSession)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidSession)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidSession)
	}
	if t.now().Sub(claims.IssuedAt.Time) > t.ttl {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// ShouldRenew reports whether a session expiring at expires has less than
// half of the TTL left.
func (t *SessionTokens) ShouldRenew(expires time.Time) bool {
	if expires.IsZero() {
		return false
	}
	return expires.Sub(t.now()) < t.ttl/2
}
