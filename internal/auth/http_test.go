// ABOUTME: Tests for the session cookie middleware
// ABOUTME: Anonymous, valid, admin and forged cookies against RequireSession and RequireAdmin

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware(t *testing.T) {
	tokens := NewSessionTokens([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	admins := AdminList([]string{" Admin@Example.com "})
	mw := SessionMiddleware("session", tokens, admins)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(id.Email))
	})

	withCookie := func(email string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if email != "" {
			token, _, err := tokens.Issue(email)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "session", Value: token})
		}
		return req
	}

	tests := []struct {
		name       string
		handler    http.Handler
		req        *http.Request
		wantStatus int
		wantBody   string
	}{
		{"anonymous passes optional", mw(ok), withCookie(""), 200, "anonymous"},
		{"anonymous rejected", mw(RequireSession(ok)), withCookie(""), 401, `{"error":"Unauthorized"}`},
		{"user accepted", mw(RequireSession(ok)), withCookie("user@example.com"), 200, "user@example.com"},
		{"user not admin", mw(RequireAdmin(ok)), withCookie("user@example.com"), 403, `{"error":"Admin access required"}`},
		{"admin accepted", mw(RequireAdmin(ok)), withCookie("admin@example.com"), 200, "admin@example.com"},
		{"anonymous admin route", mw(RequireAdmin(ok)), withCookie(""), 403, `{"error":"Admin access required"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}

	t.Run("identity carries session expiry", func(t *testing.T) {
		var got *Identity
		capture := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})
		mw(capture).ServeHTTP(httptest.NewRecorder(), withCookie("Admin@Example.com"))

		require.NotNil(t, got)
		assert.Equal(t, "admin@example.com", got.Email)
		assert.True(t, got.IsAdmin)
		assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, 2*time.Second)
	})

	t.Run("forged cookie is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		assert.Equal(t, "anonymous", rec.Body.String())
	})
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}
