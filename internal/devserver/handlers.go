// ABOUTME: HTTP handlers for cookie check, login, usage and admin endpoints
// ABOUTME: Error bodies are {"error": ...} with an optional "message"

package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/2389/molindex/internal/auth"
	"github.com/2389/molindex/internal/store"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,7}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleClearCookie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	http.SetCookie(w, &http.Cookie{
		Name:    CheckCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
		Secure:  s.cfg.SecureCookies,
	})
	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Cookie cleared"})
}

func (s *Server) handleCheckCookies(w http.ResponseWriter, r *http.Request) {
	_, err := r.Cookie(CheckCookieName)
	present := err == nil

	h := w.Header()
	h.Set("Cache-Control", "no-store, max-age=0")
	h.Set("Access-Control-Allow-Origin", s.cfg.FrontendURL)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Vary", "Origin")
	h.Set("Access-Control-Expose-Headers", "Set-Cookie")

	if !present {
		http.SetCookie(w, &http.Cookie{
			Name:     CheckCookieName,
			Value:    fmt.Sprintf("test_%d", time.Now().Unix()),
			Path:     "/",
			MaxAge:   60,
			HttpOnly: true,
			Secure:   s.cfg.SecureCookies,
		})
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"cookie_enabled": present})
}

// handleLogin is the development stand-in for the OAuth round trip: the
// email arrives as a query parameter and a signed session cookie is issued.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.DevLogin {
		s.sendJSONError(w, http.StatusNotFound, "login provider not configured")
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if !ValidEmail(email) {
		s.logger.Warn("login rejected", "email", email)
		http.Redirect(w, r, s.frontendURL("error", "auth_failed"), http.StatusFound)
		return
	}

	if err := s.issueSession(w, email); err != nil {
		s.logger.Error("failed to sign session", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("session issued", "email", email, "admin", s.isAdmin(email))
	http.Redirect(w, r, s.frontendURL("auth", "success"), http.StatusFound)
}

// issueSession signs a session for email and sets it as the session cookie.
func (s *Server) issueSession(w http.ResponseWriter, email string) error {
	token, claims, err := s.sessions.Issue(email)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
	})
	return nil
}

// renewSession re-issues the session cookie once less than half of its
// lifetime is left. Must run after auth.SessionMiddleware.
func (s *Server) renewSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := auth.FromContext(r.Context()); id != nil && s.sessions.ShouldRenew(id.ExpiresAt) {
			if err := s.issueSession(w, id.Email); err != nil {
				s.logger.Warn("session renewal failed", "email", id.Email, "error", err)
			} else {
				s.logger.Debug("session renewed", "email", id.Email)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   s.cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) frontendURL(key, value string) string {
	q := url.Values{}
	q.Set(key, value)
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/?" + q.Encode()
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	s.sendJSON(w, http.StatusOK, map[string]any{"email": id.Email, "is_admin": id.IsAdmin})
}

func (s *Server) handleUsageStatus(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	usage, err := s.usage.GetUsage(r.Context(), id.Email)
	if err != nil {
		s.logger.Error("failed to load usage", "email", id.Email, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.sendJSON(w, http.StatusOK, usage)
}

type resetUsageRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleResetUsage(w http.ResponseWriter, r *http.Request) {
	var req resetUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "No data provided")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !ValidEmail(email) {
		s.sendJSONError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	err := s.usage.ResetUsage(r.Context(), email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "User not found or never analyzed files")
		return
	case err != nil:
		s.logger.Error("failed to reset usage", "email", email, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "Failed to update user record")
		return
	}

	s.metrics.usageResets.Inc()
	s.logger.Info("usage reset", "email", email, "by", auth.FromContext(r.Context()).Email)
	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Reset successful for " + email})
}

// limitExceeded is the body of a 403 on a consumed mode.
type limitExceeded struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) contactMessage() string {
	return fmt.Sprintf("Mail to %s for further analysis", s.cfg.ContactEmail)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}
