// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext for propagating the session identity via context

package auth

import (
	"context"
	"time"
)

// Identity is the signed-in user behind a request.
type Identity struct {
	Email     string
	IsAdmin   bool
	ExpiresAt time.Time // when the session cookie lapses
}

// authContextKey is the key type for storing Identity in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the Identity attached.
func WithAuth(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, authContextKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(authContextKey{}).(*Identity)
	return id
}
