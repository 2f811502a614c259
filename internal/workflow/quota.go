// ABOUTME: Quota gate over the usage endpoint and the admin reset operation
// ABOUTME: Each refresh replaces the disabled-mode set with the latest snapshot

package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/2389/molindex/internal/analysis"
)

// Alert texts shown by ResetUsage.
const (
	AlertInvalidEmail = "Please enter a valid email"
	AlertResetOK      = "Usage reset successfully"
	AlertResetFailed  = "Reset operation failed"
)

// RefreshQuota fetches the usage snapshot and disables exhausted modes.
// Admin sessions never have modes disabled.
func (c *Controller) RefreshQuota(ctx context.Context) error {
	c.mu.Lock()
	hasSession := c.state.Session != nil
	c.mu.Unlock()
	if !hasSession {
		return ErrAuthRequired
	}

	usage, err := c.backend.UsageStatus(ctx)
	if err != nil {
		return fmt.Errorf("refreshing quota: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Usage = usage
	if c.isAdminLocked() {
		c.display.DisabledModes = nil
	} else {
		c.display.DisabledModes = usage.ExhaustedModes()
	}
	c.repaintLocked()

	c.logger.Debug("quota refreshed", "disabled", len(c.display.DisabledModes))
	return nil
}

// ResetUsage clears the usage record of email. The address is checked for
// an "@" before any request is made. Outcomes are reported through alerts.
func (c *Controller) ResetUsage(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		c.alert(AlertInvalidEmail)
		return ErrInvalidEmail
	}

	if err := c.backend.ResetUsage(ctx, email); err != nil {
		c.logger.Warn("usage reset failed", "email", email, "error", err)
		c.alert(AlertResetFailed)
		return fmt.Errorf("resetting usage: %w", err)
	}

	c.logger.Info("usage reset", "email", email)
	c.alert(AlertResetOK)
	if err := c.RefreshQuota(ctx); err != nil {
		c.logger.Warn("quota refresh failed", "error", err)
	}
	return nil
}

// SelectMode chooses the analysis mode. A mode exhausted in the current
// snapshot cannot be selected.
func (c *Controller) SelectMode(mode analysis.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", analysis.ErrUnknownMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.display.ModeDisabled(mode) {
		return fmt.Errorf("%w: %s", ErrModeUnavailable, mode)
	}
	c.state.Mode = mode
	c.display.SelectedMode = mode
	c.repaintLocked()
	return nil
}
