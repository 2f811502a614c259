// ABOUTME: Tests for the backend HTTP client
// ABOUTME: Uses httptest to verify cookies, multipart fields, and error classification

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/molindex/internal/analysis"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		BaseURL: srv.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

func writeMol(t *testing.T, dir, name, content string) analysis.File {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return analysis.File{Name: name, Path: path, Size: int64(len(content))}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.org"})
	assert.Error(t, err)

	c, err := New(Options{BaseURL: "https://example.org/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/auth/google", c.LoginURL())
}

func TestCookieCheck_RoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/clear-cookie", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		http.SetCookie(w, &http.Cookie{Name: "mol_cookie_test", Value: "", MaxAge: -1, Path: "/"})
		w.Write([]byte(`{"message":"Cookie cleared"}`))
	})
	mux.HandleFunc("/check-cookies", func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("mol_cookie_test")
		enabled := err == nil
		if !enabled {
			http.SetCookie(w, &http.Cookie{Name: "mol_cookie_test", Value: "test", Path: "/"})
		}
		json.NewEncoder(w).Encode(map[string]bool{"cookie_enabled": enabled})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.ClearCookie(ctx))
	first, err := c.CheckCookies(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	second, err := c.CheckCookies(ctx)
	require.NoError(t, err)
	assert.True(t, second, "jar should replay the test cookie")
}

func TestAuthCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/check", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(SessionCookieName); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		w.Write([]byte(`{"email":"ada@example.org","is_admin":true}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.AuthCheck(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	c.ImportSessionCookie("  token-value ")
	assert.True(t, c.HasSessionCookie())

	ident, err := c.AuthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", ident.Email)
	assert.True(t, ident.IsAdmin)
}

func TestDevLogin_CapturesCookieWithoutFollowingRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/google", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ada@example.org", r.URL.Query().Get("email"))
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "signed", Path: "/"})
		http.Redirect(w, r, "http://frontend.invalid/?auth=success", http.StatusFound)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.DevLogin(context.Background(), "ada@example.org"))
	assert.True(t, c.HasSessionCookie())
}

func TestUsageStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/usage-status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"degree":true,"degreesum":false}`))
	})
	c := newTestClient(t, mux)

	usage, err := c.UsageStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, usage.Exhausted(analysis.ModeDegree))
	assert.False(t, usage.Exhausted(analysis.ModeDegreeSum))
}

func TestResetUsage(t *testing.T) {
	var got resetUsageRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/reset-usage", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.Email == "missing@example.org" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"User not found or never analyzed files"}`))
			return
		}
		w.Write([]byte(`{"message":"Reset successful"}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.ResetUsage(ctx, "bob@example.org"))
	assert.Equal(t, "bob@example.org", got.Email)

	err := c.ResetUsage(ctx, "missing@example.org")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "User not found or never analyzed files", apiErr.Reason())
}

func TestUpload_MultipartFields(t *testing.T) {
	dir := t.TempDir()
	a := writeMol(t, dir, "a.mol", "AAA")
	b := writeMol(t, dir, "b.MOL", "BBBB")

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "reverse_degree", r.FormValue("mode"))
		assert.Equal(t, "3", r.FormValue("k"))

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.mol", files[0].Filename)
		assert.Equal(t, "b.MOL", files[1].Filename)

		w.Write([]byte(`[{"Filename":"a.mol","m1":2},{"Filename":"b.MOL","m1":4}]`))
	})
	c := newTestClient(t, mux)

	rows, err := c.Upload(context.Background(), UploadRequest{
		Mode:  analysis.ModeReverseDegree,
		K:     3,
		Files: []analysis.File{a, b},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Filename", "m1"}, rows[1].Keys)
	assert.Equal(t, json.Number("4"), rows[1].Values["m1"])
}

func TestUpload_OmitsKForOtherModes(t *testing.T) {
	dir := t.TempDir()
	a := writeMol(t, dir, "a.mol", "AAA")

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hasK := r.MultipartForm.Value["k"]
		assert.False(t, hasK)
		w.Write([]byte(`[]`))
	})
	c := newTestClient(t, mux)

	rows, err := c.Upload(context.Background(), UploadRequest{Mode: analysis.ModeDegree, K: 5, Files: []analysis.File{a}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpload_LimitExceeded(t *testing.T) {
	dir := t.TempDir()
	a := writeMol(t, dir, "a.mol", "AAA")

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"limit_exceeded","message":"Mail to help@example.org for further analysis"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.Upload(context.Background(), UploadRequest{Mode: analysis.ModeDegree, Files: []analysis.File{a}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Mail to help@example.org for further analysis", apiErr.Message)
}

func TestUpload_Malformed(t *testing.T) {
	dir := t.TempDir()
	a := writeMol(t, dir, "a.mol", "AAA")

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	c := newTestClient(t, mux)

	_, err := c.Upload(context.Background(), UploadRequest{Mode: analysis.ModeDegree, Files: []analysis.File{a}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestUpload_ServerError(t *testing.T) {
	dir := t.TempDir()
	a := writeMol(t, dir, "a.mol", "AAA")

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"server_error"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.Upload(context.Background(), UploadRequest{Mode: analysis.ModeDegree, Files: []analysis.File{a}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLimitExceeded)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "server_error", apiErr.Reason())
	assert.Contains(t, apiErr.Error(), "server_error")
}

func TestUpload_MissingFile(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	_, err := c.Upload(context.Background(), UploadRequest{
		Mode:  analysis.ModeDegree,
		Files: []analysis.File{{Name: "gone.mol", Path: filepath.Join(t.TempDir(), "gone.mol")}},
	})
	assert.Error(t, err)
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/x", StatusCode: 502}
	assert.Equal(t, "api GET /x failed with status 502", err.Error())
	assert.Equal(t, "", err.Reason())
}
