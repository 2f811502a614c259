// ABOUTME: HTTP middleware resolving the session cookie into an Identity
// ABOUTME: RequireSession and RequireAdmin answer with JSON errors

package auth

import (
	"net/http"
	"strings"
)

// AdminChecker decides whether an email has admin rights.
type AdminChecker func(email string) bool

// AdminList returns an AdminChecker matching emails case-insensitively.
func AdminList(emails []string) AdminChecker {
	set := make(map[string]bool, len(emails))
	for _, e := range emails {
		set[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return func(email string) bool {
		return set[strings.ToLower(strings.TrimSpace(email))]
	}
}

// SessionMiddleware attaches an Identity when the request carries a valid
// session cookie. Requests without one continue anonymously.
func SessionMiddleware(cookieName string, verifier SessionVerifier, isAdmin AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifySession(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id := &Identity{Email: claims.Email}
			if claims.ExpiresAt != nil {
				id.ExpiresAt = claims.ExpiresAt.Time
			}
			if isAdmin != nil {
				id.IsAdmin = isAdmin(claims.Email)
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), id)))
		})
	}
}

// RequireSession rejects requests without an Identity.
// Must be used after SessionMiddleware.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose Identity is missing or not an admin.
// Both cases answer 403. Must be used after SessionMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromContext(r.Context())
		if id == nil || !id.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
