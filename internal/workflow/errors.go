// ABOUTME: Error taxonomy for the client workflow
// ABOUTME: Callers classify outcomes with errors.Is against these sentinels

package workflow

import "errors"

var (
	// ErrCapabilityUnavailable means the backend's cookies do not round-trip.
	ErrCapabilityUnavailable = errors.New("cookies are not available")
	// ErrAuthRequired means there is no resolved session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrQuotaExceeded wraps client.ErrLimitExceeded for an exhausted mode.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrSubmissionFailed covers every other upload failure.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrInvalidEmail is returned before any request when an email lacks "@".
	ErrInvalidEmail = errors.New("invalid email")

	ErrNoFiles            = errors.New("no files selected")
	ErrNoMode             = errors.New("no mode selected")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrAlreadySubmitted   = errors.New("selection already submitted, choose files again")
	ErrModeUnavailable    = errors.New("mode is exhausted for this user")
	ErrStaleResponse      = errors.New("response discarded after intake reset")
)
