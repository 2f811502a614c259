// ABOUTME: Cookie capability check and session resolution
// ABOUTME: A failed auth check redirects to the login entry point and stops

package workflow

import (
	"context"
	"fmt"

	"github.com/2389/molindex/internal/store"
)

// VerifyCookies clears the test cookie, asks the backend to set it, then verifies it
// came back. On any failure the cookie notice is shown and false returned.
func (c *Controller) VerifyCookies(ctx context.Context) bool {
	ok := c.verifyCookies(ctx)
	if !ok {
		c.mu.Lock()
		c.display.CookieNotice = true
		c.repaintLocked()
		c.mu.Unlock()
	}
	return ok
}

func (c *Controller) verifyCookies(ctx context.Context) bool {
	if err := c.backend.ClearCookie(ctx); err != nil {
		c.logger.Warn("cookie check failed", "step", "clear", "error", err)
		return false
	}
	if _, err := c.backend.CheckCookies(ctx); err != nil {
		c.logger.Warn("cookie check failed", "step", "set", "error", err)
		return false
	}
	enabled, err := c.backend.CheckCookies(ctx)
	if err != nil {
		c.logger.Warn("cookie check failed", "step", "verify", "error", err)
		return false
	}
	if !enabled {
		c.logger.Warn("cookies are disabled")
	}
	return enabled
}

// ResolveSession asks the backend who we are. On success the session is
// stored, the intake is reset and, for non-admins, quota is refreshed. On
// failure the view is redirected to the login URL and nothing else happens.
func (c *Controller) ResolveSession(ctx context.Context) (*Session, error) {
	ident, err := c.backend.AuthCheck(ctx)
	if err != nil {
		c.mu.Lock()
		c.state.Session = nil
		c.mu.Unlock()
		if c.sessions != nil {
			if derr := c.sessions.DeleteSession(ctx, store.SessionKeyUserEmail); derr != nil {
				c.logger.Warn("failed to clear session storage", "error", derr)
			}
		}

		c.logger.Info("no session, redirecting to login", "error", err)
		if c.view != nil {
			c.view.Redirect(c.backend.LoginURL())
		}
		return nil, fmt.Errorf("%w: %w", ErrAuthRequired, err)
	}

	session := &Session{Email: ident.Email, IsAdmin: ident.IsAdmin}
	if c.sessions != nil {
		if err := c.sessions.SetSession(ctx, store.SessionKeyUserEmail, session.Email); err != nil {
			c.logger.Warn("failed to store session email", "error", err)
		}
	}

	c.mu.Lock()
	c.state.Session = session
	c.state.Usage = nil
	c.display.DisabledModes = nil
	c.resetIntakeLocked()
	c.repaintLocked()
	c.mu.Unlock()

	c.logger.Info("session resolved", "email", session.Email, "admin", session.IsAdmin)

	if !session.IsAdmin {
		if err := c.RefreshQuota(ctx); err != nil {
			c.logger.Warn("quota refresh failed", "error", err)
		}
	}

	out := *session
	return &out, nil
}
