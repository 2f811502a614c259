// Package store provides SQLite persistence for molindex.
//
// The client opens the store in memory, so its contents live only as long as
// the process: session storage (the cached identity) and the submission
// history. The development backend opens it on disk to keep per-user mode
// usage across restarts.
//
// All access goes through SQLiteStore, which implements SessionStore,
// HistoryStore and UsageStore. The schema is created on open.
package store
