// Package auth signs and verifies session cookies for the molindex
// development backend.
//
// A session is an HS256 JWT issued by SessionTokens. Its "sub" and "email"
// claims both hold the normalized address, and each login gets its own "jti".
// Sessions older than the configured TTL are refused. It travels in an
// HTTP-only cookie. SessionMiddleware resolves the cookie into an
// Identity on the request context. RequireSession rejects requests without
// one and RequireAdmin also rejects non-admins.
package auth
