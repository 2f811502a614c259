// ABOUTME: Analysis submission: k prompt, multipart upload and outcome routing
// ABOUTME: limit_exceeded keeps the selection; every other failure resets the intake

package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/client"
	"github.com/2389/molindex/internal/store"
)

// KPromptLabel is shown when asking for the reverse_degree parameter.
const KPromptLabel = "Enter k value"

// DefaultFailureReason is used when a failed upload carries no detail.
const DefaultFailureReason = "Upload failed"

// RunAnalysis submits the retained files with the selected mode. The submit
// control stays disabled when it returns unless the response was discarded
// as stale and the selection made meanwhile is still unsubmitted.
func (c *Controller) RunAnalysis(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.state.Session == nil:
		c.mu.Unlock()
		return ErrAuthRequired
	case c.state.inFlight:
		c.mu.Unlock()
		return ErrSubmissionInFlight
	case len(c.state.Files) == 0:
		c.mu.Unlock()
		return ErrNoFiles
	case c.state.Mode == "":
		c.mu.Unlock()
		return ErrNoMode
	case c.state.processed():
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}

	c.clearOutputLocked()
	c.display.SubmitEnabled = false
	gen := c.state.generation
	c.state.submittedGen = gen
	c.state.inFlight = true
	mode := c.state.Mode
	files := append([]analysis.File(nil), c.state.Files...)
	admin := c.isAdminLocked()
	c.repaintLocked()
	c.mu.Unlock()

	k := analysis.DefaultK
	if mode.TakesK() {
		k = c.promptK(ctx)
	}

	c.mu.Lock()
	c.state.K = k
	c.mu.Unlock()

	rows, err := c.backend.Upload(ctx, client.UploadRequest{Mode: mode, K: k, Files: files})

	entry := &store.HistoryEntry{
		Mode:  mode,
		K:     k,
		Files: analysis.Names(files),
	}

	c.mu.Lock()
	c.state.inFlight = false
	if c.state.generation != gen {
		// A selection made during the flight was never submitted.
		c.display.SubmitEnabled = c.state.submittable()
		c.repaintLocked()
		c.mu.Unlock()
		c.logger.Info("discarding stale response", "mode", mode, "error", err)
		entry.Outcome = store.OutcomeStale
		c.record(ctx, entry)
		return ErrStaleResponse
	}
	c.display.SubmitEnabled = false

	if err != nil {
		if errors.Is(err, client.ErrLimitExceeded) {
			msg := limitMessage(err)
			c.renderQuotaMessageLocked(msg)
			c.mu.Unlock()

			c.logger.Info("quota exceeded", "mode", mode)
			entry.Outcome = store.OutcomeLimitExceeded
			entry.Message = msg
			c.record(ctx, entry)
			if !admin {
				if rerr := c.RefreshQuota(ctx); rerr != nil {
					c.logger.Warn("quota refresh failed", "error", rerr)
				}
			}
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}

		reason := failureReason(err)
		c.renderErrorLocked(reason)
		c.resetIntakeLocked()
		c.repaintLocked()
		c.mu.Unlock()

		c.logger.Error("analysis failed", "mode", mode, "error", err)
		entry.Outcome = store.OutcomeFailed
		entry.Message = reason
		c.record(ctx, entry)
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	c.mu.Unlock()

	c.render(ctx, mode, k, rows)

	entry.Outcome = store.OutcomeOK
	entry.RowCount = len(rows)
	c.record(ctx, entry)

	if !admin {
		if err := c.RefreshQuota(ctx); err != nil {
			c.logger.Warn("quota refresh failed", "error", err)
		}
	}
	return nil
}

// promptK asks for k. Anything but a positive leading integer yields 1.
func (c *Controller) promptK(ctx context.Context) int {
	if c.prompter == nil {
		return analysis.DefaultK
	}
	answer, err := c.prompter.PromptInt(ctx, KPromptLabel)
	if err != nil {
		c.logger.Debug("k prompt dismissed", "error", err)
		return analysis.DefaultK
	}
	return ParseK(answer)
}

// ParseK reads the leading integer of s. Values that are missing, unparsable
// or not positive give analysis.DefaultK.
func ParseK(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return analysis.DefaultK
	}
	k, err := strconv.Atoi(s[:end])
	if err != nil || k <= 0 {
		return analysis.DefaultK
	}
	return k
}

func limitMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// failureReason picks the message, then the error tag, then a default.
func failureReason(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if reason := apiErr.Reason(); reason != "" {
			return reason
		}
		return DefaultFailureReason
	}
	if err != nil {
		return err.Error()
	}
	return DefaultFailureReason
}

func (c *Controller) record(ctx context.Context, entry *store.HistoryEntry) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordSubmission(ctx, entry); err != nil {
		c.logger.Warn("failed to record submission", "error", err)
	}
}
