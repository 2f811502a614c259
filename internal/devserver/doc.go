// Package devserver is a development backend implementing the HTTP contract
// the molindex client talks to.
//
// It mirrors the production service closely enough to exercise the whole
// client: the cookie check endpoints, a login shortcut that issues a signed
// session cookie for any email (/auth/google?email=...), per-user one-shot
// mode quota with an admin reset, and descriptor computation for uploaded
// molfiles. Prometheus metrics are served at /metrics.
//
// Usage is persisted through store.UsageStore. Computed rows are memoized in
// a rowcache.Cache keyed by file content, so repeated uploads skip the ring
// search.
package devserver
