// Package client talks to the molindex analysis backend over its HTTP contract.
//
// Every request is credentialed: the Client owns a cookie jar for the process
// lifetime, which stands in for the browser's cookie store. Cookies set by the
// backend (the test cookie and the session cookie) are replayed on later
// requests to the same origin.
//
// # Endpoints
//
//	GET  /clear-cookie        reset the test cookie
//	GET  /check-cookies       set, then verify, the test cookie
//	GET  /auth/check          resolve identity
//	GET  /auth/google         external login entry point
//	GET  /usage-status        per-mode exhaustion
//	POST /admin/reset-usage   clear a user's usage (admin)
//	POST /upload              multipart analysis submission
//
// # Errors
//
// Non-2xx responses become *APIError. Use errors.Is with ErrLimitExceeded or
// ErrUnauthorized to classify them.
package client
